// Package fixture provides a deterministic scripted game feed useful
// for local runs and tests: a short home win with an overlap
// re-delivery and a shot-count correction baked in.
package fixture

import (
	"context"
	"fmt"

	"rinkcast/internal/domain/game"
)

const (
	homeTeamID = "bos"
	awayTeamID = "mtl"
)

// Provider replays a scripted set of event batches, one per poll cycle.
type Provider struct{}

// New creates a fixture provider.
func New() *Provider {
	return &Provider{}
}

// FetchRoster returns the static side mapping for the scripted teams.
func (p *Provider) FetchRoster(ctx context.Context, gameID string) (map[string]game.Side, error) {
	_ = ctx
	_ = gameID
	return map[string]game.Side{
		homeTeamID: game.SideHome,
		awayTeamID: game.SideAway,
	}, nil
}

// FetchEvents returns the scripted batch at the cursor. Past the end of
// the script it returns empty batches, mimicking a finished game.
func (p *Provider) FetchEvents(ctx context.Context, gameID string, cursor int) ([]game.Event, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, cursor, err
	}

	script := script(gameID)
	if cursor < 0 || cursor >= len(script) {
		return nil, cursor, nil
	}
	return script[cursor], cursor + 1, nil
}

func script(gameID string) [][]game.Event {
	id := func(n string) string { return fmt.Sprintf("%s-%s", gameID, n) }

	openingGoal := game.Event{
		ID:      id("goal-1"),
		Kind:    game.EventGoal,
		GameID:  gameID,
		TeamID:  homeTeamID,
		Scorer:  "Marchand",
		Assists: []string{"Bergeron", "Pastrnak"},
		Period:  1,
		Clock:   "12:34",
	}

	return [][]game.Event{
		{
			{ID: id("clock-1"), Kind: game.EventClock, GameID: gameID, Period: 1, Clock: "20:00", Situation: "even-strength"},
			{ID: id("shot-1"), Kind: game.EventShot, GameID: gameID, TeamID: homeTeamID, CumulativeShots: 2},
		},
		{
			openingGoal,
			{ID: id("shot-2"), Kind: game.EventShot, GameID: gameID, TeamID: homeTeamID, CumulativeShots: 5},
		},
		{
			// The collector re-delivers the tail of the previous poll.
			openingGoal,
			{ID: id("pen-1"), Kind: game.EventPenalty, GameID: gameID, TeamID: awayTeamID, Player: "Xhekaj", PenaltyMinutes: 2, Infraction: "tripping", Period: 1, Clock: "08:11"},
			{ID: id("clock-2"), Kind: game.EventClock, GameID: gameID, Period: 1, Clock: "08:11", Situation: "power-play"},
		},
		{
			{ID: id("goal-2"), Kind: game.EventGoal, GameID: gameID, TeamID: awayTeamID, Scorer: "Caufield", Assists: []string{"Suzuki"}, Period: 2, Clock: "14:02"},
			{ID: id("shot-3"), Kind: game.EventShot, GameID: gameID, TeamID: awayTeamID, CumulativeShots: 9},
		},
		{
			// A corrected delivery reporting a lower cumulative total.
			{ID: id("shot-4"), Kind: game.EventShot, GameID: gameID, TeamID: homeTeamID, CumulativeShots: 4},
			{ID: id("clock-3"), Kind: game.EventClock, GameID: gameID, Period: 3, Clock: "20:00", Situation: "even-strength"},
		},
		{
			{ID: id("goal-3"), Kind: game.EventGoal, GameID: gameID, TeamID: homeTeamID, Scorer: "Pastrnak", Period: 3, Clock: "05:47"},
			{ID: id("shot-5"), Kind: game.EventShot, GameID: gameID, TeamID: homeTeamID, CumulativeShots: 18},
		},
	}
}
