package namer

// UniquenessReport summarizes a self-check over allocated filenames.
type UniquenessReport struct {
	TotalFiles  int `json:"totalFiles"`
	UniqueFiles int `json:"uniqueFiles"`
	Duplicates  int `json:"duplicates"`
}

// ValidateUniqueness verifies that every allocation for a game produced
// a distinct filename. A non-zero Duplicates count indicates a bug.
func (a *Allocator) ValidateUniqueness(gameID string) UniquenessReport {
	records := a.RecordsFor(gameID)
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		seen[rec.Filename] = struct{}{}
	}
	return UniquenessReport{
		TotalFiles:  len(records),
		UniqueFiles: len(seen),
		Duplicates:  len(records) - len(seen),
	}
}
