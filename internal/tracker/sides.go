package tracker

import (
	"errors"
	"fmt"

	"rinkcast/internal/domain/game"
)

// TeamDirectory maps feed team identifiers onto the home/away sides for
// one game. It is loaded from per-game roster metadata and injected at
// tracker construction; the tracker never guesses a side.
type TeamDirectory struct {
	sides map[string]game.Side
}

// NewTeamDirectory builds a directory from a team-id to side mapping.
// Entries with an invalid side are dropped.
func NewTeamDirectory(sides map[string]game.Side) TeamDirectory {
	out := make(map[string]game.Side, len(sides))
	for id, side := range sides {
		if id == "" || !side.Valid() {
			continue
		}
		out[id] = side
	}
	return TeamDirectory{sides: out}
}

// Resolve returns the side for a team id, or an UnknownTeamError.
func (d TeamDirectory) Resolve(teamID string) (game.Side, error) {
	if teamID == "" {
		return "", &UnknownTeamError{TeamID: teamID}
	}
	if side, ok := d.sides[teamID]; ok {
		return side, nil
	}
	return "", &UnknownTeamError{TeamID: teamID}
}

// Len reports how many team ids the directory knows about.
func (d TeamDirectory) Len() int {
	return len(d.sides)
}

// UnknownTeamError signals that an event referenced a team id the game's
// roster metadata does not cover. Mis-attributing a goal is worse than
// dropping the event, so callers surface this loudly instead of guessing.
type UnknownTeamError struct {
	TeamID string
}

func (e *UnknownTeamError) Error() string {
	if e.TeamID == "" {
		return "event missing team id"
	}
	return fmt.Sprintf("unknown team id %q", e.TeamID)
}

// AsUnknownTeamError attempts to unwrap an error into an UnknownTeamError.
func AsUnknownTeamError(err error) (*UnknownTeamError, bool) {
	var utErr *UnknownTeamError
	if errors.As(err, &utErr) {
		return utErr, true
	}
	return nil, false
}
