package feed

import (
	"context"
	"log/slog"
	"time"

	"rinkcast/internal/domain/game"
	"rinkcast/internal/logging"
	"rinkcast/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingProvider wraps a Provider with retry/backoff behavior.
type retryingProvider struct {
	inner       Provider
	name        string
	logger      *slog.Logger
	metrics     *metrics.Recorder
	maxAttempts int
	backoffFn   backoffFunc
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingProvider(inner Provider, name string, logger *slog.Logger, recorder *metrics.Recorder, maxAttempts int, backoff time.Duration) Provider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &retryingProvider{
		inner:       inner,
		name:        name,
		logger:      logger,
		metrics:     recorder,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingProvider) FetchEvents(ctx context.Context, gameID string, cursor int) ([]game.Event, int, error) {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		events, next, err := r.inner.FetchEvents(ctx, gameID, cursor)
		if r.metrics != nil {
			r.metrics.RecordFeedAttempt(r.name, time.Since(start), err)
		}
		if err == nil {
			return events, next, nil
		}
		lastErr = err

		if attempt == r.maxAttempts {
			break
		}

		r.logWarn(ctx, "feed fetch retry",
			slog.String(logging.FieldFeed, r.name),
			slog.String(logging.FieldGameID, gameID),
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"err", err,
		)

		// backoff with context awareness
		delay := r.backoffFn(attempt)
		select {
		case <-ctx.Done():
			return nil, cursor, ctx.Err()
		case <-time.After(delay):
		}
	}

	r.logWarn(ctx, "feed fetch failed",
		slog.String(logging.FieldFeed, r.name),
		slog.String(logging.FieldGameID, gameID),
		"attempts", r.maxAttempts,
		"err", lastErr,
	)
	return nil, cursor, lastErr
}

func (r *retryingProvider) logWarn(ctx context.Context, msg string, args ...any) {
	logger := logging.FromContext(ctx, r.logger)
	if logger != nil {
		logger.Warn(msg, args...)
	}
}
