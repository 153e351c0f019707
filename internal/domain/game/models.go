package game

import "time"

// Side identifies which bench a team, goal, or penalty belongs to.
type Side string

const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// Valid reports whether the side is one of the two known values.
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Score captures home and away goals scored.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Shots captures cumulative shots on goal per side.
type Shots struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// GoalRecord is an append-only entry for a single goal.
type GoalRecord struct {
	Scorer  string   `json:"scorer"`
	Side    Side     `json:"side"`
	Period  int      `json:"period"`
	Clock   string   `json:"clock"`
	Assists []string `json:"assists,omitempty"`
}

// PenaltyRecord is an append-only entry for a single penalty.
type PenaltyRecord struct {
	Player     string `json:"player"`
	Side       Side   `json:"side"`
	Period     int    `json:"period"`
	Clock      string `json:"clock"`
	Minutes    int    `json:"minutes"`
	Infraction string `json:"infraction"`
}

// GoalieLine holds derived goaltending stats for one side.
type GoalieLine struct {
	GoalsAllowed int `json:"goalsAllowed"`
}

// GoalieStats holds derived goaltending stats for both sides.
type GoalieStats struct {
	Home GoalieLine `json:"home"`
	Away GoalieLine `json:"away"`
}

// State is the authoritative in-memory record for one game.
// It is exclusively owned by the tracker that mutates it; everyone
// else sees deep copies.
type State struct {
	GameID        string          `json:"gameId"`
	Score         Score           `json:"score"`
	Shots         Shots           `json:"shots"`
	Period        int             `json:"period"`
	TimeRemaining string          `json:"timeRemaining"`
	Situation     string          `json:"situation"`
	Goals         []GoalRecord    `json:"goals"`
	Penalties     []PenaltyRecord `json:"penalties"`
	Goalies       GoalieStats     `json:"goalieStats"`
	ProcessedIDs  map[string]bool `json:"processedEventIds"`
	LastUpdate    time.Time       `json:"lastUpdateTime"`
}

// NewState constructs an empty State for the given game.
func NewState(gameID string) State {
	return State{
		GameID:       gameID,
		Period:       1,
		ProcessedIDs: make(map[string]bool),
	}
}

// Clone returns a deep copy safe to hand to readers.
func (s State) Clone() State {
	out := s
	out.Goals = append([]GoalRecord(nil), s.Goals...)
	for i, g := range out.Goals {
		out.Goals[i].Assists = append([]string(nil), g.Assists...)
	}
	out.Penalties = append([]PenaltyRecord(nil), s.Penalties...)
	out.ProcessedIDs = make(map[string]bool, len(s.ProcessedIDs))
	for id := range s.ProcessedIDs {
		out.ProcessedIDs[id] = true
	}
	return out
}
