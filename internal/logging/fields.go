package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldGameID     = "game_id"
	FieldEventID    = "event_id"
	FieldTrack      = "track"
	FieldEpoch      = "epoch"
	FieldFeed       = "feed"
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
)
