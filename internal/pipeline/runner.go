package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"rinkcast/internal/archive"
	"rinkcast/internal/domain/game"
	"rinkcast/internal/logging"
	"rinkcast/internal/metrics"
	"rinkcast/internal/namer"
	"rinkcast/internal/session"
	"rinkcast/internal/store"
	"rinkcast/internal/timeutil"
	"rinkcast/internal/tracker"
)

// RunnerDeps bundles the collaborators a Runner needs.
type RunnerDeps struct {
	Sessions    *session.Manager
	Commentator Commentator
	Synthesizer Synthesizer
	Allocator   *namer.Allocator
	Store       *store.MemoryStore
	Archive     *archive.Store
	Logger      *slog.Logger
	Recorder    *metrics.Recorder
}

// Runner owns the commentary loop for a single game. It is not safe
// for concurrent use; the supervisor serializes batches per game.
type Runner struct {
	gameID  string
	tracker *tracker.Tracker
	handles []session.Handle
	deps    RunnerDeps
}

// NewRunner constructs a Runner around a fresh tracker for the game.
func NewRunner(gameID string, teams tracker.TeamDirectory, deps RunnerDeps) *Runner {
	return &Runner{
		gameID:  gameID,
		tracker: tracker.New(gameID, teams),
		deps:    deps,
	}
}

// Start opens the first session epoch and prepares the audio directory.
func (r *Runner) Start(ctx context.Context) error {
	if dir := r.deps.Allocator.BaseDir(); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create audio dir: %w", err)
		}
	}

	handles, err := r.deps.Sessions.Start(ctx, r.tracker.Snapshot())
	if err != nil {
		return fmt.Errorf("open sessions for %s: %w", r.gameID, err)
	}
	r.handles = handles
	return nil
}

// ProcessBatch folds a batch into the game state, publishes the new
// snapshot, and narrates whatever the batch actually changed. An empty
// effective batch (all duplicates) produces no commentary and does not
// advance the session cadence.
func (r *Runner) ProcessBatch(ctx context.Context, events []game.Event) error {
	report := r.tracker.Apply(events)
	st := r.tracker.Snapshot()

	r.deps.Recorder.RecordBatchApplied(r.gameID, report.Processed, report.Skipped,
		len(report.Warnings), len(report.NewGoals), len(report.NewPenalties))
	r.deps.Store.SetState(st)
	r.deps.Store.SetReport(r.gameID, report)

	for _, w := range report.Warnings {
		logging.Warn(r.deps.Logger, "event rejected",
			slog.String(logging.FieldGameID, r.gameID),
			slog.String(logging.FieldEventID, w.EventID),
			"error", w.Message,
		)
	}

	if report.Processed == 0 {
		return nil
	}

	if err := r.narrate(ctx, report, st); err != nil {
		return err
	}

	for i := 0; i < report.Processed; i++ {
		r.deps.Sessions.RecordProcessed()
	}

	handles, err := r.deps.Sessions.MaybeRotate(ctx, r.handles, st)
	r.handles = handles
	if err != nil {
		// Stale sessions still work; rotation retries at the next boundary.
		logging.Warn(r.deps.Logger, "continuing on stale sessions",
			slog.String(logging.FieldGameID, r.gameID),
			"error", err,
		)
	}
	return nil
}

func (r *Runner) narrate(ctx context.Context, report tracker.UpdateReport, st game.State) error {
	label := timeutil.ClockLabel(st.Period, st.TimeRemaining)

	for _, handle := range r.handles {
		lines, err := r.deps.Commentator.Narrate(ctx, handle, report, st)
		if err != nil {
			return fmt.Errorf("narrate track %s: %w", handle.Track, err)
		}

		for _, line := range lines {
			audioID, audio, err := r.deps.Synthesizer.Synthesize(ctx, line)
			if err != nil {
				return fmt.Errorf("synthesize line for %s: %w", handle.Track, err)
			}

			filename, _ := r.deps.Allocator.Allocate(namer.Dimensions{
				GameID:         r.gameID,
				TimestampLabel: label,
				Speaker:        line.Speaker,
				Style:          line.Style,
			}, audioID, handle.ID)

			path := filepath.Join(r.deps.Allocator.BaseDir(), filename)
			if err := os.WriteFile(path, audio, 0o644); err != nil {
				return fmt.Errorf("write audio %s: %w", filename, err)
			}
		}
	}
	return nil
}

// Finish archives the final state, writes the audio manifest, and
// persists the allocation records.
func (r *Runner) Finish(ctx context.Context) error {
	data, err := r.tracker.ExportFinal()
	if err != nil {
		return fmt.Errorf("export final state for %s: %w", r.gameID, err)
	}

	if r.deps.Archive != nil {
		if err := r.deps.Archive.SaveFinalState(ctx, r.gameID, data); err != nil {
			return err
		}
		if err := r.deps.Archive.SaveAudioRecords(ctx, r.gameID, r.deps.Allocator.RecordsFor(r.gameID)); err != nil {
			return err
		}
	}

	if _, err := r.deps.Allocator.WriteManifest(r.gameID); err != nil {
		return fmt.Errorf("write manifest for %s: %w", r.gameID, err)
	}

	if report := r.deps.Allocator.ValidateUniqueness(r.gameID); report.Duplicates > 0 {
		logging.Error(r.deps.Logger, "duplicate audio filenames detected", nil,
			slog.String(logging.FieldGameID, r.gameID),
			slog.Int("duplicates", report.Duplicates),
		)
	}
	return nil
}

// Snapshot returns the current state of the tracked game.
func (r *Runner) Snapshot() game.State {
	return r.tracker.Snapshot()
}

// SessionStats reports the rotation cadence for the game's sessions.
func (r *Runner) SessionStats() session.Stats {
	return r.deps.Sessions.Stats()
}

// Handles returns the current conversation handles.
func (r *Runner) Handles() []session.Handle {
	return r.handles
}

// Records returns the audio allocation records for the game.
func (r *Runner) Records() []namer.AudioFileRecord {
	return r.deps.Allocator.RecordsFor(r.gameID)
}
