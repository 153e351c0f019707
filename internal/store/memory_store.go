package store

import (
	"sort"
	"sync"

	"rinkcast/internal/domain/game"
	"rinkcast/internal/tracker"
)

// MemoryStore keeps a thread-safe snapshot of the latest state and
// update report per tracked game. The pipeline publishes after every
// batch; HTTP handlers read concurrently.
type MemoryStore struct {
	mu      sync.RWMutex
	states  map[string]game.State
	reports map[string]tracker.UpdateReport
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:  make(map[string]game.State),
		reports: make(map[string]tracker.UpdateReport),
	}
}

// SetState replaces the stored snapshot for a game.
func (s *MemoryStore) SetState(st game.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[st.GameID] = st
}

// State retrieves the latest snapshot for a game.
func (s *MemoryStore) State(gameID string) (game.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[gameID]
	return st, ok
}

// SetReport records the outcome of the latest applied batch for a game.
func (s *MemoryStore) SetReport(gameID string, report tracker.UpdateReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports[gameID] = report
}

// Report retrieves the latest batch report for a game.
func (s *MemoryStore) Report(gameID string) (tracker.UpdateReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[gameID]
	return r, ok
}

// GameIDs returns the sorted ids of all games with a stored snapshot.
func (s *MemoryStore) GameIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
