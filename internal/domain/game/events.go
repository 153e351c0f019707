package game

// EventKind tags the shape of an incoming event document.
type EventKind string

const (
	EventClock   EventKind = "CLOCK"
	EventGoal    EventKind = "GOAL"
	EventPenalty EventKind = "PENALTY"
	EventShot    EventKind = "SHOT"
)

// Event is one document from the live data feed. Only the fields
// relevant to the event kind are populated; the tracker tolerates
// absent optional fields.
type Event struct {
	ID     string    `json:"id"`
	Kind   EventKind `json:"kind"`
	GameID string    `json:"gameId"`

	// Clock fields, present on every kind that carries game time.
	Period    int    `json:"period,omitempty"`
	Clock     string `json:"clock,omitempty"`
	Situation string `json:"situation,omitempty"`

	// TeamID indicates the acting team for goal/penalty/shot kinds.
	TeamID string `json:"teamId,omitempty"`

	// Goal fields.
	Scorer  string   `json:"scorer,omitempty"`
	Assists []string `json:"assists,omitempty"`

	// Penalty fields.
	Player         string `json:"player,omitempty"`
	PenaltyMinutes int    `json:"penaltyMinutes,omitempty"`
	Infraction     string `json:"infraction,omitempty"`

	// Shot fields: the feed reports the team's cumulative shot count,
	// not a delta.
	CumulativeShots int `json:"cumulativeShots,omitempty"`
}
