package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("expected default poll interval, got %v", cfg.PollInterval)
	}
	if cfg.Feed != defaultFeed {
		t.Fatalf("expected default feed, got %s", cfg.Feed)
	}
	if cfg.RefreshInterval != defaultRefreshInterval {
		t.Fatalf("expected default refresh interval, got %d", cfg.RefreshInterval)
	}
	if len(cfg.Tracks) != 2 || cfg.Tracks[0] != "play-by-play" || cfg.Tracks[1] != "color" {
		t.Fatalf("expected two default tracks, got %v", cfg.Tracks)
	}
	if len(cfg.GameIDs) != 0 {
		t.Fatalf("expected no default game ids, got %v", cfg.GameIDs)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(envPort, "9999")
	t.Setenv(envPollInterval, "5s")
	t.Setenv(envFeed, "nhl")
	t.Setenv(envGameIDs, "g1, g2 ,g3")
	t.Setenv(envTracks, "solo")
	t.Setenv(envRefreshInterval, "7")
	t.Setenv(envRotationTimeout, "3s")
	t.Setenv(envMetricsEnabled, "true")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Fatalf("expected port override, got %s", cfg.Port)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("expected 5s poll interval, got %v", cfg.PollInterval)
	}
	if cfg.Feed != "nhl" {
		t.Fatalf("expected feed override, got %s", cfg.Feed)
	}
	if len(cfg.GameIDs) != 3 || cfg.GameIDs[1] != "g2" {
		t.Fatalf("expected trimmed game ids, got %v", cfg.GameIDs)
	}
	if len(cfg.Tracks) != 1 || cfg.Tracks[0] != "solo" {
		t.Fatalf("expected single track, got %v", cfg.Tracks)
	}
	if cfg.RefreshInterval != 7 {
		t.Fatalf("expected refresh interval 7, got %d", cfg.RefreshInterval)
	}
	if cfg.RotationTimeout != 3*time.Second {
		t.Fatalf("expected 3s rotation timeout, got %v", cfg.RotationTimeout)
	}
	if !cfg.Metrics.Enabled {
		t.Fatalf("expected metrics enabled")
	}
}

func TestInvalidEnvFallsBack(t *testing.T) {
	t.Setenv(envPollInterval, "bogus")
	t.Setenv(envRefreshInterval, "-3")
	t.Setenv(envRotationTimeout, "0s")

	cfg := Load()
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("expected fallback poll interval, got %v", cfg.PollInterval)
	}
	if cfg.RefreshInterval != defaultRefreshInterval {
		t.Fatalf("expected fallback refresh interval, got %d", cfg.RefreshInterval)
	}
	if cfg.RotationTimeout != defaultRotationTimeout {
		t.Fatalf("expected fallback rotation timeout, got %v", cfg.RotationTimeout)
	}
}
