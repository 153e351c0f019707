package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"rinkcast/internal/domain/game"
	"rinkcast/internal/logging"
	"rinkcast/internal/metrics"
)

const (
	defaultRefreshInterval = 5
	defaultRotationTimeout = 10 * time.Second
	defaultRecapLimit      = 6
	retryInitialInterval   = 100 * time.Millisecond
)

type managerState string

const (
	stateActive   managerState = "ACTIVE"
	stateRotating managerState = "ROTATING"
)

// Config controls rotation cadence and seed construction.
type Config struct {
	Tracks          []string
	RefreshInterval int
	RotationTimeout time.Duration
	RecapLimit      int
}

// Manager bounds the conversational context handed to the generative
// backend by rotating session handles on a fixed processed-unit cadence.
// It is owned by a single pipeline flow; no internal locking.
type Manager struct {
	backend  Backend
	tracks   []string
	interval int
	timeout  time.Duration
	recap    int
	logger   *slog.Logger
	metrics  *metrics.Recorder
	now      func() time.Time

	state        managerState
	processed    int
	rotations    int
	epoch        int
	lastBoundary int
}

// Stats exposes rotation cadence counters for observability.
type Stats struct {
	TotalProcessed     int `json:"totalProcessed"`
	RefreshInterval    int `json:"refreshInterval"`
	RotationsPerformed int `json:"rotationsPerformed"`
	NextRotationAt     int `json:"nextRotationAt"`
}

// NewManager constructs a Manager with sane defaults.
func NewManager(backend Backend, cfg Config, logger *slog.Logger, recorder *metrics.Recorder) *Manager {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}
	if cfg.RotationTimeout <= 0 {
		cfg.RotationTimeout = defaultRotationTimeout
	}
	if cfg.RecapLimit <= 0 {
		cfg.RecapLimit = defaultRecapLimit
	}
	if len(cfg.Tracks) == 0 {
		cfg.Tracks = []string{"play-by-play"}
	}
	return &Manager{
		backend:  backend,
		tracks:   append([]string(nil), cfg.Tracks...),
		interval: cfg.RefreshInterval,
		timeout:  cfg.RotationTimeout,
		recap:    cfg.RecapLimit,
		logger:   logger,
		metrics:  recorder,
		now:      time.Now,
		state:    stateActive,
	}
}

// Start creates the initial set of handles, one per track, seeded with
// the current state so a restored game resumes coherently.
func (m *Manager) Start(ctx context.Context, st game.State) ([]Handle, error) {
	handles, err := m.openEpoch(ctx, st)
	if err != nil {
		return nil, err
	}
	return handles, nil
}

// RecordProcessed increments the processed-unit counter. Call exactly
// once per fully completed unit of work. The counter is never reset on
// rotation: cadence stays aligned to the absolute processed count.
func (m *Manager) RecordProcessed() {
	m.processed++
}

// MaybeRotate returns the input handles unchanged except at rotation
// boundaries. A boundary counts as crossed once the processed counter
// reaches or passes the next multiple of the interval, so a batch that
// advances the counter by several units cannot step over a boundary
// unnoticed. A crossed boundary is consumed whether or not the rotation
// succeeds; on failure the caller keeps the stale (still valid) handles
// and the next chance comes at the following boundary.
func (m *Manager) MaybeRotate(ctx context.Context, handles []Handle, st game.State) ([]Handle, error) {
	if m.processed/m.interval == m.lastBoundary/m.interval {
		return handles, nil
	}
	m.lastBoundary = m.processed

	start := m.now()
	fresh, err := m.openEpoch(ctx, st)
	if m.metrics != nil {
		m.metrics.RecordRotation(m.now().Sub(start), err)
	}
	if err != nil {
		logging.Warn(m.logger, "session rotation failed, keeping stale handles",
			slog.String(logging.FieldGameID, st.GameID),
			slog.Int("processed", m.processed),
			"error", err,
		)
		return handles, err
	}

	m.rotations++
	logging.Info(m.logger, "session rotated",
		slog.String(logging.FieldGameID, st.GameID),
		slog.Int(logging.FieldEpoch, m.epoch),
		slog.Int("processed", m.processed),
	)
	return fresh, nil
}

// openEpoch creates one handle per track and seeds each with the fact
// sheet and recap. Either every track succeeds and the epoch advances,
// or no new handle is handed back at all.
func (m *Manager) openEpoch(ctx context.Context, st game.State) ([]Handle, error) {
	m.state = stateRotating
	defer func() { m.state = stateActive }()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	seed := BuildSeed(st, m.recap)
	rotationID := uuid.NewString()
	nextEpoch := m.epoch + 1

	fresh := make([]Handle, 0, len(m.tracks))
	for _, track := range m.tracks {
		handle, err := m.createWithRetry(ctx, track)
		if err != nil {
			return nil, &RotationError{Track: track, Err: err}
		}
		handle.Track = track
		handle.Epoch = nextEpoch
		if handle.CreatedAt.IsZero() {
			handle.CreatedAt = m.now().UTC()
		}
		if err := m.backend.SendSeed(ctx, handle, seed); err != nil {
			return nil, &RotationError{Track: track, Err: err}
		}
		logging.Info(m.logger, "session handle created",
			slog.String(logging.FieldTrack, track),
			slog.Int(logging.FieldEpoch, nextEpoch),
			slog.String("rotation_id", rotationID),
		)
		fresh = append(fresh, handle)
	}

	m.epoch = nextEpoch
	return fresh, nil
}

func (m *Manager) createWithRetry(ctx context.Context, track string) (Handle, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialInterval
	policy.MaxElapsedTime = 0 // the rotation timeout bounds the attempt

	var handle Handle
	err := backoff.Retry(func() error {
		var err error
		handle, err = m.backend.CreateSession(ctx, track)
		return err
	}, backoff.WithContext(policy, ctx))
	return handle, err
}

// Stats returns cadence counters for observability endpoints.
func (m *Manager) Stats() Stats {
	next := ((m.processed / m.interval) + 1) * m.interval
	if m.processed/m.interval > m.lastBoundary/m.interval {
		// A crossed boundary has not been consumed yet; the next
		// MaybeRotate call fires for it.
		next = ((m.lastBoundary / m.interval) + 1) * m.interval
	}
	return Stats{
		TotalProcessed:     m.processed,
		RefreshInterval:    m.interval,
		RotationsPerformed: m.rotations,
		NextRotationAt:     next,
	}
}

// Epoch returns the current session epoch (0 before Start).
func (m *Manager) Epoch() int {
	return m.epoch
}
