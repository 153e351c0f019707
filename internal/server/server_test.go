package server

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"rinkcast/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	dir := t.TempDir()
	return config.Config{
		Port:            "0",
		PollInterval:    time.Minute,
		Feed:            "fixture",
		GameIDs:         []string{"game-1"},
		Tracks:          []string{"play-by-play"},
		RefreshInterval: 5,
		RotationTimeout: time.Second,
		RecapLimit:      6,
		AudioDir:        filepath.Join(dir, "audio"),
		ArchivePath:     filepath.Join(dir, "archive.db"),
	}
}

func TestNewBuildsServer(t *testing.T) {
	s, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer s.archive.Close()

	if s.Handler() == nil {
		t.Fatal("expected HTTP handler")
	}
	if s.poller == nil {
		t.Fatal("expected poller wired")
	}
}

func TestServerHealthEndpoint(t *testing.T) {
	s, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer s.archive.Close()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestServerServesStateAfterCycle(t *testing.T) {
	s, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer s.archive.Close()

	if err := s.supervisor.ProcessCycle(context.Background(), "game-1"); err != nil {
		t.Fatalf("ProcessCycle returned error: %v", err)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/games/game-1/state", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestServerReadyBeforeFirstCycle(t *testing.T) {
	s, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer s.archive.Close()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/ready", nil))

	if rec.Code != 503 {
		t.Fatalf("expected 503 before first poll, got %d", rec.Code)
	}
}

func TestServerRequiresWritableArchive(t *testing.T) {
	cfg := testConfig(t)
	cfg.ArchivePath = ""

	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error for missing archive path")
	}
}

func TestGracefulShutdownArchives(t *testing.T) {
	s, err := New(testConfig(t), nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if err := s.supervisor.ProcessCycle(context.Background(), "game-1"); err != nil {
		t.Fatalf("ProcessCycle returned error: %v", err)
	}

	s.gracefulShutdown()

	// Stop is idempotent; a second call must not fail.
	if err := s.poller.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}
