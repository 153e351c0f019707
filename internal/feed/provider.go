package feed

import (
	"context"

	"rinkcast/internal/domain/game"
)

// Provider defines how live event documents are fetched and normalized.
// FetchEvents returns the batch of events after the given cursor along
// with the new cursor; a provider decides what its cursor means (poll
// index, sequence number, upstream token).
type Provider interface {
	FetchEvents(ctx context.Context, gameID string, cursor int) ([]game.Event, int, error)
}

// RosterProvider loads the per-game team-id to side mapping from static
// game metadata. Resolved once at tracker construction.
type RosterProvider interface {
	FetchRoster(ctx context.Context, gameID string) (map[string]game.Side, error)
}

// DataProvider combines all provider capabilities.
type DataProvider interface {
	Provider
	RosterProvider
}
