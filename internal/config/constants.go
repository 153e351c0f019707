package config

import "time"

const (
	envPort            = "PORT"
	envPollInterval    = "POLL_INTERVAL"
	envFeed            = "FEED"
	envGameIDs         = "GAME_IDS"
	envTracks          = "COMMENTARY_TRACKS"
	envRefreshInterval = "SESSION_REFRESH_INTERVAL"
	envRotationTimeout = "SESSION_ROTATION_TIMEOUT"
	envRecapLimit      = "SESSION_RECAP_LIMIT"
	envAudioDir        = "AUDIO_DIR"
	envArchivePath     = "ARCHIVE_PATH"

	envMetricsEnabled      = "METRICS_ENABLED"
	envMetricsPort         = "METRICS_PORT"
	envMetricsServiceName  = "METRICS_SERVICE_NAME"
	envMetricsOtlpEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envMetricsOtlpInsecure = "OTEL_EXPORTER_OTLP_INSECURE"
)

const (
	defaultPort            = "8080"
	defaultPollInterval    = 15 * time.Second
	defaultFeed            = "fixture"
	defaultTracks          = "play-by-play,color"
	defaultRefreshInterval = 5
	defaultRotationTimeout = 10 * time.Second
	defaultRecapLimit      = 6
	defaultAudioDir        = "data/audio"
	defaultArchivePath     = "data/rinkcast.db"

	defaultMetricsPort        = "9090"
	defaultMetricsServiceName = "rinkcast"
)
