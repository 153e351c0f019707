// Package commentary holds the built-in generative collaborators: a
// scripted session backend, commentator, and synthesizer. They stand in
// for a real LLM/TTS pairing so the pipeline runs end to end without
// network credentials.
package commentary

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"rinkcast/internal/session"
)

// ScriptedBackend is an in-process session backend. It mints opaque
// handle ids and remembers every seed it was sent.
type ScriptedBackend struct {
	mu    sync.Mutex
	seeds map[string]session.Seed
	now   func() time.Time
}

// NewScriptedBackend constructs an empty ScriptedBackend.
func NewScriptedBackend() *ScriptedBackend {
	return &ScriptedBackend{
		seeds: make(map[string]session.Seed),
		now:   time.Now,
	}
}

// CreateSession mints a fresh conversation handle.
func (b *ScriptedBackend) CreateSession(ctx context.Context, track string) (session.Handle, error) {
	if err := ctx.Err(); err != nil {
		return session.Handle{}, err
	}
	return session.Handle{
		ID:        uuid.NewString(),
		Track:     track,
		CreatedAt: b.now().UTC(),
	}, nil
}

// SendSeed records the seed delivered into a conversation.
func (b *ScriptedBackend) SendSeed(ctx context.Context, handle session.Handle, seed session.Seed) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seeds[handle.ID] = seed
	return nil
}

// Seed returns the seed last delivered to a handle.
func (b *ScriptedBackend) Seed(handleID string) (session.Seed, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.seeds[handleID]
	return s, ok
}
