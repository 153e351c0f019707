// Package pipeline drives the per-game commentary loop: fold a batch
// of feed events into game state, narrate what changed on each track,
// synthesize audio, and file it under a collision-free name.
package pipeline

import (
	"context"

	"rinkcast/internal/domain/game"
	"rinkcast/internal/session"
	"rinkcast/internal/tracker"
)

// Line is one utterance to synthesize, attributed to a speaker persona
// and delivery style.
type Line struct {
	Speaker string `json:"speaker"`
	Style   string `json:"style"`
	Text    string `json:"text"`
}

// Commentator turns a batch report and the current state into lines of
// commentary for one conversation track.
type Commentator interface {
	Narrate(ctx context.Context, handle session.Handle, report tracker.UpdateReport, st game.State) ([]Line, error)
}

// Synthesizer renders a line to audio. The returned audio id is stable
// for the produced payload and is recorded alongside the filename.
type Synthesizer interface {
	Synthesize(ctx context.Context, line Line) (audioID string, audio []byte, err error)
}
