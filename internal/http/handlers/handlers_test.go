package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"rinkcast/internal/domain/game"
	"rinkcast/internal/feed/fixture"
	"rinkcast/internal/namer"
	"rinkcast/internal/pipeline"
	"rinkcast/internal/poller"
	"rinkcast/internal/session"
	"rinkcast/internal/store"
	"rinkcast/internal/tracker"
)

type scriptlessBackend struct{}

func (scriptlessBackend) CreateSession(ctx context.Context, track string) (session.Handle, error) {
	return session.Handle{ID: "h-" + track, Track: track}, nil
}

func (scriptlessBackend) SendSeed(ctx context.Context, handle session.Handle, seed session.Seed) error {
	return nil
}

type silentCommentator struct{}

func (silentCommentator) Narrate(ctx context.Context, handle session.Handle, report tracker.UpdateReport, st game.State) ([]pipeline.Line, error) {
	return nil, nil
}

type silentSynthesizer struct{}

func (silentSynthesizer) Synthesize(ctx context.Context, line pipeline.Line) (string, []byte, error) {
	return "aud", nil, nil
}

func newTestHandler(t *testing.T, statusFn func() poller.Status) *Handler {
	t.Helper()

	memStore := store.NewMemoryStore()
	sup := pipeline.NewSupervisor(pipeline.SupervisorDeps{
		Provider:    fixture.New(),
		Backend:     scriptlessBackend{},
		SessionCfg:  session.Config{Tracks: []string{"play-by-play"}},
		Commentator: silentCommentator{},
		Synthesizer: silentSynthesizer{},
		Allocator:   namer.New(t.TempDir()),
		Store:       memStore,
	})
	if err := sup.ProcessCycle(context.Background(), "game-1"); err != nil {
		t.Fatalf("seed cycle: %v", err)
	}
	return NewHandler(memStore, sup, nil, statusFn)
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthRejectsPost(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/health", nil))

	if rec.Code != 405 {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestReadyWithoutStatusFn(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/ready", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyReflectsPollerHealth(t *testing.T) {
	ready := poller.Status{LastSuccess: time.Now()}
	h := newTestHandler(t, func() poller.Status { return ready })

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/ready", nil))
	if rec.Code != 200 {
		t.Fatalf("expected 200 when ready, got %d", rec.Code)
	}

	ready = poller.Status{LastSuccess: time.Now(), ConsecutiveFailures: 5, LastError: "feed down"}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/ready", nil))
	if rec.Code != 503 {
		t.Fatalf("expected 503 when failing, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "feed down" {
		t.Fatalf("expected poller error surfaced, got %q", body["error"])
	}
}

func TestGamesListsSnapshots(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/games", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Games []string `json:"games"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Games) != 1 || body.Games[0] != "game-1" {
		t.Fatalf("unexpected games list %v", body.Games)
	}
}

func TestGameState(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/games/game-1/state", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var st game.State
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if st.GameID != "game-1" {
		t.Fatalf("unexpected game id %q", st.GameID)
	}
}

func TestGameStateNotFound(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/games/missing/state", nil))

	if rec.Code != 404 {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGameReport(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/games/game-1/report", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var report tracker.UpdateReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
}

func TestGameSession(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/games/game-1/session", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Stats   session.Stats    `json:"stats"`
		Handles []session.Handle `json:"handles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if len(body.Handles) != 1 || body.Handles[0].Track != "play-by-play" {
		t.Fatalf("unexpected handles %v", body.Handles)
	}
}

func TestGameManifest(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/games/game-1/manifest", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		GameID string                  `json:"gameId"`
		Files  []namer.AudioFileRecord `json:"files"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if body.GameID != "game-1" {
		t.Fatalf("unexpected game id %q", body.GameID)
	}
	if body.Files == nil {
		t.Fatal("expected empty array, not null")
	}
}

func TestUnknownRoute(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/nope", nil))

	if rec.Code != 404 {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUnknownGameSubRoute(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/games/game-1/nope", nil))

	if rec.Code != 404 {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestErrorIncludesRequestID(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest("GET", "/games/missing/state", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["requestId"] != "req-123" {
		t.Fatalf("expected request id echoed, got %q", body["requestId"])
	}
}
