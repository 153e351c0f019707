package namer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"rinkcast/internal/metrics"
)

// Dimensions are the naming inputs for one audio artifact.
type Dimensions struct {
	GameID         string
	TimestampLabel string
	Speaker        string
	Style          string
}

// AudioFileRecord captures the full composite sequence metadata for one
// allocated filename, kept for manifest construction and debugging.
type AudioFileRecord struct {
	Filename        string    `json:"filename"`
	GlobalSeq       int64     `json:"globalSeq"`
	GameSeq         int       `json:"gameSeq"`
	TimestampSeq    int       `json:"timestampSeq"`
	SpeakerStyleSeq int       `json:"speakerStyleSeq"`
	DuplicateSuffix int       `json:"duplicateSuffix"`
	CreatedAt       time.Time `json:"createdAt"`
	AudioID         string    `json:"audioId,omitempty"`
	SessionID       string    `json:"sessionId,omitempty"`
}

// Allocator hands out collision-free audio filenames under concurrent
// demand. One coarse lock guards the counters and the existence check;
// it is never held across actually writing audio payloads.
type Allocator struct {
	mu         sync.Mutex
	baseDir    string
	exists     func(path string) bool
	now        func() time.Time
	globalSeq  int64
	gameSeq    map[string]int
	tsSeq      map[string]int
	speakerSeq map[string]int
	records    map[string][]AudioFileRecord
	metrics    *metrics.Recorder
}

// Option customizes an Allocator.
type Option func(*Allocator)

// WithExistsFunc overrides the path-existence check (for tests).
func WithExistsFunc(fn func(path string) bool) Option {
	return func(a *Allocator) {
		if fn != nil {
			a.exists = fn
		}
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(a *Allocator) {
		a.metrics = rec
	}
}

// New constructs an Allocator rooted at baseDir.
func New(baseDir string, opts ...Option) *Allocator {
	a := &Allocator{
		baseDir: baseDir,
		exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
		now:        time.Now,
		gameSeq:    make(map[string]int),
		tsSeq:      make(map[string]int),
		speakerSeq: make(map[string]int),
		records:    make(map[string][]AudioFileRecord),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// BaseDir exposes the allocator root path (primarily for callers
// composing full output paths).
func (a *Allocator) BaseDir() string {
	if a == nil {
		return ""
	}
	return a.baseDir
}

// Allocate reserves a unique filename for the given dimensions and
// returns it with the global sequence number. The audioID and sessionID
// are carried on the record purely for traceability.
func (a *Allocator) Allocate(dims Dimensions, audioID, sessionID string) (string, int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.globalSeq++
	global := a.globalSeq

	a.gameSeq[dims.GameID]++
	gameSeq := a.gameSeq[dims.GameID]

	tsKey := dims.GameID + "|" + dims.TimestampLabel
	a.tsSeq[tsKey]++
	tsSeq := a.tsSeq[tsKey]

	spKey := dims.GameID + "|" + dims.Speaker + "|" + dims.Style
	a.speakerSeq[spKey]++
	spSeq := a.speakerSeq[spKey]

	base := fmt.Sprintf("%s_%s_%s_%s_g%06d_n%04d_t%03d_v%03d",
		sanitize(dims.GameID),
		sanitize(dims.TimestampLabel),
		sanitize(dims.Speaker),
		sanitize(dims.Style),
		global,
		gameSeq,
		tsSeq,
		spSeq,
	)

	filename := base + ".wav"
	dupe := 0
	for a.exists(filepath.Join(a.baseDir, filename)) {
		dupe++
		filename = fmt.Sprintf("%s_d%03d.wav", base, dupe)
	}

	record := AudioFileRecord{
		Filename:        filename,
		GlobalSeq:       global,
		GameSeq:         gameSeq,
		TimestampSeq:    tsSeq,
		SpeakerStyleSeq: spSeq,
		DuplicateSuffix: dupe,
		CreatedAt:       a.now().UTC(),
		AudioID:         audioID,
		SessionID:       sessionID,
	}
	a.records[dims.GameID] = append(a.records[dims.GameID], record)

	if a.metrics != nil {
		a.metrics.RecordAllocation(dims.GameID)
	}
	return filename, global
}

// RecordsFor returns a copy of every allocation recorded for a game.
func (a *Allocator) RecordsFor(gameID string) []AudioFileRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]AudioFileRecord(nil), a.records[gameID]...)
}

func sanitize(value string) string {
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
