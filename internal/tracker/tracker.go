package tracker

import (
	"time"

	"rinkcast/internal/domain/game"
)

// Warning describes an event that could not be applied.
type Warning struct {
	EventID string `json:"eventId"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// UpdateReport summarizes one Apply call.
type UpdateReport struct {
	Processed    int                  `json:"processed"`
	Skipped      int                  `json:"skipped"`
	NewGoals     []game.GoalRecord    `json:"newGoals"`
	NewPenalties []game.PenaltyRecord `json:"newPenalties"`
	Warnings     []Warning            `json:"warnings,omitempty"`
}

// Tracker folds event documents into the authoritative state for one
// game. It is single-writer: the owning pipeline is the only caller of
// Apply, so no internal locking is needed.
type Tracker struct {
	state game.State
	teams TeamDirectory
	now   func() time.Time
}

// New constructs a Tracker for a game with its resolved team directory.
func New(gameID string, teams TeamDirectory) *Tracker {
	return &Tracker{
		state: game.NewState(gameID),
		teams: teams,
		now:   time.Now,
	}
}

// Apply folds an ordered batch of events into the state. Events already
// present in the idempotency ledger are skipped without any mutation.
// Malformed events never abort the batch; they are skipped and surfaced
// as warnings so a corrected re-delivery can still land later.
func (t *Tracker) Apply(batch []game.Event) UpdateReport {
	report := UpdateReport{
		NewGoals:     []game.GoalRecord{},
		NewPenalties: []game.PenaltyRecord{},
	}

	for _, ev := range batch {
		if ev.ID == "" {
			report.Warnings = append(report.Warnings, Warning{Message: "event missing id"})
			continue
		}
		if t.state.ProcessedIDs[ev.ID] {
			report.Skipped++
			continue
		}

		if warn, ok := t.applyEvent(ev, &report); !ok {
			report.Warnings = append(report.Warnings, warn)
			continue
		}

		t.state.ProcessedIDs[ev.ID] = true
		t.state.LastUpdate = t.now().UTC()
		report.Processed++
	}

	return report
}

func (t *Tracker) applyEvent(ev game.Event, report *UpdateReport) (Warning, bool) {
	switch ev.Kind {
	case game.EventClock:
		t.applyClock(ev)
	case game.EventGoal:
		return t.applyGoal(ev, report)
	case game.EventPenalty:
		return t.applyPenalty(ev, report)
	case game.EventShot:
		return t.applyShot(ev)
	default:
		// Unknown kinds are ledgered so re-delivery stays cheap, but
		// produce no state change beyond the timestamp.
	}
	return Warning{}, true
}

// applyClock overwrites the point-in-time facts. These are not counters,
// so no monotonicity defense applies.
func (t *Tracker) applyClock(ev game.Event) {
	if ev.Period > 0 {
		t.state.Period = ev.Period
	}
	if ev.Clock != "" {
		t.state.TimeRemaining = ev.Clock
	}
	if ev.Situation != "" {
		t.state.Situation = ev.Situation
	}
}

func (t *Tracker) applyGoal(ev game.Event, report *UpdateReport) (Warning, bool) {
	if ev.Scorer == "" {
		return Warning{EventID: ev.ID, Message: "goal event missing scorer"}, false
	}
	side, err := t.teams.Resolve(ev.TeamID)
	if err != nil {
		return Warning{EventID: ev.ID, Message: err.Error(), Err: err}, false
	}

	assists := ev.Assists
	if len(assists) > 2 {
		assists = assists[:2]
	}
	record := game.GoalRecord{
		Scorer:  ev.Scorer,
		Side:    side,
		Period:  pickPeriod(ev.Period, t.state.Period),
		Clock:   ev.Clock,
		Assists: append([]string(nil), assists...),
	}

	if side == game.SideHome {
		t.state.Score.Home++
		t.state.Goalies.Away.GoalsAllowed++
	} else {
		t.state.Score.Away++
		t.state.Goalies.Home.GoalsAllowed++
	}
	t.state.Goals = append(t.state.Goals, record)
	report.NewGoals = append(report.NewGoals, record)
	t.applyClock(ev)
	return Warning{}, true
}

func (t *Tracker) applyPenalty(ev game.Event, report *UpdateReport) (Warning, bool) {
	if ev.Player == "" {
		return Warning{EventID: ev.ID, Message: "penalty event missing player"}, false
	}
	side, err := t.teams.Resolve(ev.TeamID)
	if err != nil {
		return Warning{EventID: ev.ID, Message: err.Error(), Err: err}, false
	}

	record := game.PenaltyRecord{
		Player:     ev.Player,
		Side:       side,
		Period:     pickPeriod(ev.Period, t.state.Period),
		Clock:      ev.Clock,
		Minutes:    ev.PenaltyMinutes,
		Infraction: ev.Infraction,
	}
	t.state.Penalties = append(t.state.Penalties, record)
	report.NewPenalties = append(report.NewPenalties, record)
	t.applyClock(ev)
	return Warning{}, true
}

// applyShot only ever raises the cumulative counter. The feed reports
// absolute totals, and a late or corrected delivery may carry a value
// lower than what is already recorded.
func (t *Tracker) applyShot(ev game.Event) (Warning, bool) {
	side, err := t.teams.Resolve(ev.TeamID)
	if err != nil {
		return Warning{EventID: ev.ID, Message: err.Error(), Err: err}, false
	}

	if side == game.SideHome {
		if ev.CumulativeShots > t.state.Shots.Home {
			t.state.Shots.Home = ev.CumulativeShots
		}
	} else {
		if ev.CumulativeShots > t.state.Shots.Away {
			t.state.Shots.Away = ev.CumulativeShots
		}
	}
	return Warning{}, true
}

func pickPeriod(eventPeriod, statePeriod int) int {
	if eventPeriod > 0 {
		return eventPeriod
	}
	return statePeriod
}

// Snapshot returns a deep copy of the current state. Callers must treat
// it as read-only with respect to the tracker; mutations never leak back.
func (t *Tracker) Snapshot() game.State {
	return t.state.Clone()
}
