package config

// Config holds runtime configuration for the service.
type Config struct {
	Port            string
	PollInterval    Duration
	Feed            string
	GameIDs         []string
	Tracks          []string
	RefreshInterval int
	RotationTimeout Duration
	RecapLimit      int
	AudioDir        string
	ArchivePath     string
	Metrics         MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:            envOrDefault(envPort, defaultPort),
		PollInterval:    durationEnvOrDefault(envPollInterval, defaultPollInterval),
		Feed:            envOrDefault(envFeed, defaultFeed),
		GameIDs:         listEnvOrDefault(envGameIDs, ""),
		Tracks:          listEnvOrDefault(envTracks, defaultTracks),
		RefreshInterval: intEnvOrDefault(envRefreshInterval, defaultRefreshInterval),
		RotationTimeout: durationEnvOrDefault(envRotationTimeout, defaultRotationTimeout),
		RecapLimit:      intEnvOrDefault(envRecapLimit, defaultRecapLimit),
		AudioDir:        envOrDefault(envAudioDir, defaultAudioDir),
		ArchivePath:     envOrDefault(envArchivePath, defaultArchivePath),
		Metrics:         loadMetrics(),
	}
}
