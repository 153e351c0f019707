package tracker

import (
	"encoding/json"
	"fmt"

	"rinkcast/internal/domain/game"
)

// ExportFinal serializes the current state for terminal persistence.
func (t *Tracker) ExportFinal() ([]byte, error) {
	return json.MarshalIndent(t.state, "", "  ")
}

// Restore rehydrates a tracker from a previously exported snapshot,
// preserving the idempotency ledger so re-delivered events stay inert
// across a crash or restart.
func Restore(data []byte, teams TeamDirectory) (*Tracker, error) {
	var st game.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode exported state: %w", err)
	}
	if st.GameID == "" {
		return nil, fmt.Errorf("exported state missing game id")
	}
	if st.ProcessedIDs == nil {
		st.ProcessedIDs = make(map[string]bool)
	}
	if st.Period < 1 {
		st.Period = 1
	}

	restored := New(st.GameID, teams)
	restored.state = st
	return restored, nil
}
