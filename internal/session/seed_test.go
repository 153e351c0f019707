package session

import (
	"strings"
	"testing"

	"rinkcast/internal/domain/game"
)

func TestBuildSeedRecapOrderedByGameTime(t *testing.T) {
	st := game.NewState("g1")
	st.Goals = []game.GoalRecord{
		{Scorer: "Late", Side: game.SideHome, Period: 2, Clock: "03:00"},
		{Scorer: "Early", Side: game.SideAway, Period: 1, Clock: "15:00"},
	}
	st.Penalties = []game.PenaltyRecord{
		{Player: "Middle", Side: game.SideHome, Period: 2, Clock: "10:00", Minutes: 2, Infraction: "hooking"},
	}

	seed := BuildSeed(st, 10)
	if len(seed.Recap) != 3 {
		t.Fatalf("expected 3 recap lines, got %v", seed.Recap)
	}
	if !strings.Contains(seed.Recap[0], "Early") {
		t.Fatalf("expected earliest event first, got %v", seed.Recap)
	}
	if !strings.Contains(seed.Recap[1], "Middle") {
		t.Fatalf("expected penalty in the middle, got %v", seed.Recap)
	}
	if !strings.Contains(seed.Recap[2], "Late") {
		t.Fatalf("expected latest event last, got %v", seed.Recap)
	}
}

func TestBuildSeedRecapBounded(t *testing.T) {
	st := game.NewState("g1")
	for i := 0; i < 10; i++ {
		st.Goals = append(st.Goals, game.GoalRecord{
			Scorer: string(rune('A' + i)),
			Side:   game.SideHome,
			Period: 1,
			Clock:  "10:00",
		})
	}

	seed := BuildSeed(st, 4)
	if len(seed.Recap) != 4 {
		t.Fatalf("expected recap bounded to 4, got %d", len(seed.Recap))
	}
	// Newest entries survive the cut.
	if !strings.Contains(seed.Recap[3], "J") {
		t.Fatalf("expected newest goal kept, got %v", seed.Recap)
	}
}

func TestBuildSeedFactSheet(t *testing.T) {
	st := game.NewState("g7")
	st.Score = game.Score{Home: 3, Away: 2}
	st.Shots = game.Shots{Home: 21, Away: 17}
	st.Period = 3
	st.TimeRemaining = "10:42"
	st.Situation = "even-strength"

	seed := BuildSeed(st, 0)
	facts := seed.Facts
	if facts.GameID != "g7" || facts.Score != st.Score || facts.Shots != st.Shots {
		t.Fatalf("unexpected fact sheet %+v", facts)
	}
	if facts.Period != 3 || facts.TimeRemaining != "10:42" || facts.Situation != "even-strength" {
		t.Fatalf("unexpected clock facts %+v", facts)
	}
}

func TestGoalLineIncludesAssists(t *testing.T) {
	line := goalLine(game.GoalRecord{
		Scorer:  "Marchand",
		Side:    game.SideHome,
		Period:  1,
		Clock:   "12:34",
		Assists: []string{"Bergeron", "Pastrnak"},
	})
	if !strings.Contains(line, "Marchand") || !strings.Contains(line, "Bergeron, Pastrnak") {
		t.Fatalf("unexpected goal line %q", line)
	}
}
