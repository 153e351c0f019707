package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Handle is an opaque reference to one conversation with the generative
// backend. The backend owns the ID; the manager stamps the epoch.
type Handle struct {
	ID        string    `json:"id"`
	Track     string    `json:"track"`
	Epoch     int       `json:"epoch"`
	CreatedAt time.Time `json:"createdAt"`
}

// Backend is the minimal contract the generative collaborator must
// expose: create a fresh conversation and deliver a message into it.
type Backend interface {
	CreateSession(ctx context.Context, track string) (Handle, error)
	SendSeed(ctx context.Context, handle Handle, seed Seed) error
}

// RotationError reports that a rotation attempt failed for a track. The
// caller keeps its existing handles; rotation is a liveness
// optimization, not a correctness requirement.
type RotationError struct {
	Track string
	Err   error
}

func (e *RotationError) Error() string {
	return fmt.Sprintf("rotate track %q: %v", e.Track, e.Err)
}

func (e *RotationError) Unwrap() error {
	return e.Err
}

// AsRotationError attempts to unwrap an error into a RotationError.
func AsRotationError(err error) (*RotationError, bool) {
	var rotErr *RotationError
	if errors.As(err, &rotErr) {
		return rotErr, true
	}
	return nil, false
}
