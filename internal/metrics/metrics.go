package metrics

import (
	"sync"
	"time"
)

type gameStats struct {
	eventsApplied int
	dedupSkips    int
	warnings      int
	goals         int
	penalties     int
	allocations   int
}

type feedStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about pipeline activity.
// It is intentionally simple so it can be swapped for a real backend later.
type Recorder struct {
	mu               sync.Mutex
	games            map[string]*gameStats
	feeds            map[string]*feedStats
	rotations        int
	rotationFailures int
	otel             *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		games: make(map[string]*gameStats),
		feeds: make(map[string]*feedStats),
		otel:  otel,
	}
}

// RecordBatchApplied tracks the outcome of one tracker apply call.
func (r *Recorder) RecordBatchApplied(gameID string, applied, skipped, warnings, goals, penalties int) {
	if r == nil {
		return
	}
	stats := r.ensureGame(gameID)
	r.mu.Lock()
	stats.eventsApplied += applied
	stats.dedupSkips += skipped
	stats.warnings += warnings
	stats.goals += goals
	stats.penalties += penalties
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordBatchApplied(gameID, applied, skipped, warnings, goals, penalties)
	}
}

// RecordRotation tracks a session rotation attempt.
func (r *Recorder) RecordRotation(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	if err != nil {
		r.rotationFailures++
	} else {
		r.rotations++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordRotation(duration, err)
	}
}

// RecordAllocation tracks one audio filename allocation.
func (r *Recorder) RecordAllocation(gameID string) {
	if r == nil {
		return
	}
	stats := r.ensureGame(gameID)
	r.mu.Lock()
	stats.allocations++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordAllocation(gameID)
	}
}

// RecordFeedAttempt increments counters for a feed fetch and stores the last observed latency.
func (r *Recorder) RecordFeedAttempt(feed string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	stats := r.ensureFeed(feed)
	r.mu.Lock()
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordFeedAttempt(feed, duration, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks ingest cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

// GameSnapshot is a copy of the per-game counters.
type GameSnapshot struct {
	EventsApplied int
	DedupSkips    int
	Warnings      int
	Goals         int
	Penalties     int
	Allocations   int
}

// GameSnapshot returns a copy of the counters recorded for a game.
func (r *Recorder) GameSnapshot(gameID string) GameSnapshot {
	if r == nil {
		return GameSnapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.games[gameID]
	if !ok || stats == nil {
		return GameSnapshot{}
	}
	return GameSnapshot{
		EventsApplied: stats.eventsApplied,
		DedupSkips:    stats.dedupSkips,
		Warnings:      stats.warnings,
		Goals:         stats.goals,
		Penalties:     stats.penalties,
		Allocations:   stats.allocations,
	}
}

// Rotations returns the count of successful rotations recorded.
func (r *Recorder) Rotations() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rotations
}

// RotationFailures returns the count of failed rotation attempts.
func (r *Recorder) RotationFailures() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rotationFailures
}

// FeedCalls returns the total fetch attempts recorded for a feed.
func (r *Recorder) FeedCalls(feed string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.feeds[feed]; ok && stats != nil {
		return stats.calls
	}
	return 0
}

// FeedErrors returns the total failed fetch attempts recorded for a feed.
func (r *Recorder) FeedErrors(feed string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.feeds[feed]; ok && stats != nil {
		return stats.errors
	}
	return 0
}

func (r *Recorder) ensureGame(gameID string) *gameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.games[gameID]
	if !ok {
		stats = &gameStats{}
		r.games[gameID] = stats
	}
	return stats
}

func (r *Recorder) ensureFeed(feed string) *feedStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.feeds[feed]
	if !ok {
		stats = &feedStats{}
		r.feeds[feed] = stats
	}
	return stats
}
