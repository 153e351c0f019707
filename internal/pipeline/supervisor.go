package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"rinkcast/internal/archive"
	"rinkcast/internal/feed"
	"rinkcast/internal/logging"
	"rinkcast/internal/metrics"
	"rinkcast/internal/namer"
	"rinkcast/internal/session"
	"rinkcast/internal/store"
	"rinkcast/internal/tracker"
)

// SupervisorDeps bundles the shared collaborators for all games.
type SupervisorDeps struct {
	Provider    feed.DataProvider
	Backend     session.Backend
	SessionCfg  session.Config
	Commentator Commentator
	Synthesizer Synthesizer
	Allocator   *namer.Allocator
	Store       *store.MemoryStore
	Archive     *archive.Store
	Logger      *slog.Logger
	Recorder    *metrics.Recorder
}

// Supervisor manages one Runner per tracked game and feeds each its
// event batches. Different games may be processed concurrently; the
// supervisor guarantees a single in-flight cycle per game.
type Supervisor struct {
	deps SupervisorDeps

	mu      sync.Mutex
	runners map[string]*Runner
	cursors map[string]int
	busy    map[string]bool
}

// NewSupervisor constructs an empty Supervisor.
func NewSupervisor(deps SupervisorDeps) *Supervisor {
	return &Supervisor{
		deps:    deps,
		runners: make(map[string]*Runner),
		cursors: make(map[string]int),
		busy:    make(map[string]bool),
	}
}

// ProcessCycle fetches the next event batch for a game and hands it to
// the game's runner, creating the runner on first contact.
func (s *Supervisor) ProcessCycle(ctx context.Context, gameID string) error {
	runner, err := s.ensureRunner(ctx, gameID)
	if err != nil {
		return err
	}

	if !s.acquire(gameID) {
		// A previous cycle for this game is still running.
		return nil
	}
	defer s.release(gameID)

	cursor := s.cursor(gameID)
	events, next, err := s.deps.Provider.FetchEvents(ctx, gameID, cursor)
	if err != nil {
		return fmt.Errorf("fetch events for %s: %w", gameID, err)
	}
	s.setCursor(gameID, next)

	if len(events) == 0 {
		return nil
	}
	return runner.ProcessBatch(ctx, events)
}

func (s *Supervisor) ensureRunner(ctx context.Context, gameID string) (*Runner, error) {
	s.mu.Lock()
	if r, ok := s.runners[gameID]; ok {
		s.mu.Unlock()
		return r, nil
	}
	s.mu.Unlock()

	roster, err := s.deps.Provider.FetchRoster(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetch roster for %s: %w", gameID, err)
	}
	teams := tracker.NewTeamDirectory(roster)

	runner := NewRunner(gameID, teams, RunnerDeps{
		Sessions:    session.NewManager(s.deps.Backend, s.deps.SessionCfg, s.deps.Logger, s.deps.Recorder),
		Commentator: s.deps.Commentator,
		Synthesizer: s.deps.Synthesizer,
		Allocator:   s.deps.Allocator,
		Store:       s.deps.Store,
		Archive:     s.deps.Archive,
		Logger:      s.deps.Logger,
		Recorder:    s.deps.Recorder,
	})

	// A prior export means the process restarted mid-game; resume with
	// the ledger intact so re-delivered events stay inert.
	if s.deps.Archive != nil {
		if data, err := s.deps.Archive.FinalState(ctx, gameID); err == nil {
			if restored, err := tracker.Restore(data, teams); err == nil {
				runner.tracker = restored
				logging.Info(s.deps.Logger, "game state restored from archive",
					slog.String(logging.FieldGameID, gameID),
				)
			}
		}
	}

	if err := runner.Start(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.runners[gameID]; ok {
		return existing, nil
	}
	s.runners[gameID] = runner
	logging.Info(s.deps.Logger, "game runner started",
		slog.String(logging.FieldGameID, gameID),
		slog.Int("teams", teams.Len()),
	)
	return runner, nil
}

func (s *Supervisor) acquire(gameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[gameID] {
		return false
	}
	s.busy[gameID] = true
	return true
}

func (s *Supervisor) release(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[gameID] = false
}

func (s *Supervisor) cursor(gameID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors[gameID]
}

func (s *Supervisor) setCursor(gameID string, cursor int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursors[gameID] = cursor
}

func (s *Supervisor) runner(gameID string) (*Runner, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runners[gameID]
	return r, ok
}

// SessionStats reports the session cadence for a tracked game.
func (s *Supervisor) SessionStats(gameID string) (session.Stats, bool) {
	r, ok := s.runner(gameID)
	if !ok {
		return session.Stats{}, false
	}
	return r.SessionStats(), true
}

// Handles returns the current conversation handles for a tracked game.
func (s *Supervisor) Handles(gameID string) ([]session.Handle, bool) {
	r, ok := s.runner(gameID)
	if !ok {
		return nil, false
	}
	return r.Handles(), true
}

// Records returns the audio allocation records for a tracked game.
func (s *Supervisor) Records(gameID string) ([]namer.AudioFileRecord, bool) {
	r, ok := s.runner(gameID)
	if !ok {
		return nil, false
	}
	return r.Records(), true
}

// FinishAll archives every tracked game. The first error is returned
// after all games have been attempted.
func (s *Supervisor) FinishAll(ctx context.Context) error {
	s.mu.Lock()
	runners := make(map[string]*Runner, len(s.runners))
	for id, r := range s.runners {
		runners[id] = r
	}
	s.mu.Unlock()

	var firstErr error
	for id, r := range runners {
		if err := r.Finish(ctx); err != nil {
			logging.Error(s.deps.Logger, "archiving game failed", err,
				slog.String(logging.FieldGameID, id),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
