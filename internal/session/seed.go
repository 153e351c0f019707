package session

import (
	"fmt"
	"sort"
	"strings"

	"rinkcast/internal/domain/game"
	"rinkcast/internal/timeutil"
)

// FactSheet is the compact authoritative-state rendering carried into a
// fresh session so the story stays consistent across the rotation
// boundary.
type FactSheet struct {
	GameID        string     `json:"gameId"`
	Score         game.Score `json:"score"`
	Shots         game.Shots `json:"shots"`
	Period        int        `json:"period"`
	TimeRemaining string     `json:"timeRemaining"`
	Situation     string     `json:"situation"`
	GoalCount     int        `json:"goalCount"`
	PenaltyCount  int        `json:"penaltyCount"`
}

// Seed is the structured first turn of a rotated session: current facts
// plus a bounded recap of recent notable events. How a backend renders
// it into a prompt is its own business.
type Seed struct {
	Facts FactSheet `json:"facts"`
	Recap []string  `json:"recap"`
}

type recapEntry struct {
	period    int
	remaining int
	line      string
}

// BuildSeed assembles a rotation seed from a state snapshot. The recap
// holds at most limit lines, newest last.
func BuildSeed(st game.State, limit int) Seed {
	if limit <= 0 {
		limit = 6
	}

	entries := make([]recapEntry, 0, len(st.Goals)+len(st.Penalties))
	for _, g := range st.Goals {
		entries = append(entries, recapEntry{
			period:    g.Period,
			remaining: clockSeconds(g.Clock),
			line:      goalLine(g),
		})
	}
	for _, p := range st.Penalties {
		entries = append(entries, recapEntry{
			period:    p.Period,
			remaining: clockSeconds(p.Clock),
			line:      penaltyLine(p),
		})
	}

	// The clock counts down, so within a period later events have less
	// time remaining.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].period != entries[j].period {
			return entries[i].period < entries[j].period
		}
		return entries[i].remaining > entries[j].remaining
	})
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	recap := make([]string, 0, len(entries))
	for _, e := range entries {
		recap = append(recap, e.line)
	}

	return Seed{
		Facts: FactSheet{
			GameID:        st.GameID,
			Score:         st.Score,
			Shots:         st.Shots,
			Period:        st.Period,
			TimeRemaining: st.TimeRemaining,
			Situation:     st.Situation,
			GoalCount:     len(st.Goals),
			PenaltyCount:  len(st.Penalties),
		},
		Recap: recap,
	}
}

func clockSeconds(clock string) int {
	secs, err := timeutil.ParseClock(clock)
	if err != nil {
		return 0
	}
	return secs
}

func goalLine(g game.GoalRecord) string {
	line := fmt.Sprintf("goal %s (%s) P%d %s", g.Scorer, g.Side, g.Period, g.Clock)
	if len(g.Assists) > 0 {
		line += " assists " + strings.Join(g.Assists, ", ")
	}
	return line
}

func penaltyLine(p game.PenaltyRecord) string {
	return fmt.Sprintf("penalty %s (%s) %dmin %s P%d %s", p.Player, p.Side, p.Minutes, p.Infraction, p.Period, p.Clock)
}
