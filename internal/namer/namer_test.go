package namer

import (
	"strings"
	"sync"
	"testing"
)

func TestAllocateCompositeSequences(t *testing.T) {
	a := New(t.TempDir())

	name1, global1 := a.Allocate(Dimensions{GameID: "g1", TimestampLabel: "p1_1234", Speaker: "al", Style: "excited"}, "a1", "s1")
	name2, global2 := a.Allocate(Dimensions{GameID: "g1", TimestampLabel: "p1_1234", Speaker: "al", Style: "excited"}, "a2", "s1")
	name3, global3 := a.Allocate(Dimensions{GameID: "g2", TimestampLabel: "p1_0500", Speaker: "bea", Style: "calm"}, "a3", "s2")

	if name1 == name2 || name2 == name3 || name1 == name3 {
		t.Fatalf("expected distinct filenames: %s %s %s", name1, name2, name3)
	}
	if global1 != 1 || global2 != 2 || global3 != 3 {
		t.Fatalf("expected monotonic global sequence, got %d %d %d", global1, global2, global3)
	}

	recs := a.RecordsFor("g1")
	if len(recs) != 2 {
		t.Fatalf("expected 2 records for g1, got %d", len(recs))
	}
	if recs[0].GameSeq != 1 || recs[1].GameSeq != 2 {
		t.Fatalf("expected per-game sequence 1,2 got %d,%d", recs[0].GameSeq, recs[1].GameSeq)
	}
	if recs[0].TimestampSeq != 1 || recs[1].TimestampSeq != 2 {
		t.Fatalf("expected per-timestamp sequence 1,2 got %d,%d", recs[0].TimestampSeq, recs[1].TimestampSeq)
	}
	if recs[0].SpeakerStyleSeq != 1 || recs[1].SpeakerStyleSeq != 2 {
		t.Fatalf("expected per-speaker sequence 1,2 got %d,%d", recs[0].SpeakerStyleSeq, recs[1].SpeakerStyleSeq)
	}

	g2 := a.RecordsFor("g2")
	if len(g2) != 1 || g2[0].GameSeq != 1 {
		t.Fatalf("expected g2 sequence to start at 1, got %+v", g2)
	}
}

func TestAllocateRecordsTraceIDs(t *testing.T) {
	a := New(t.TempDir())
	a.Allocate(Dimensions{GameID: "g1", TimestampLabel: "p1_0000", Speaker: "al", Style: "calm"}, "audio-9", "sess-7")

	recs := a.RecordsFor("g1")
	if recs[0].AudioID != "audio-9" || recs[0].SessionID != "sess-7" {
		t.Fatalf("expected trace ids recorded, got %+v", recs[0])
	}
}

func TestAllocateDisambiguatesExistingFiles(t *testing.T) {
	collisions := 2
	a := New("out", WithExistsFunc(func(path string) bool {
		if collisions > 0 {
			collisions--
			return true
		}
		return false
	}))

	name, _ := a.Allocate(Dimensions{GameID: "g1", TimestampLabel: "p1_0000", Speaker: "al", Style: "calm"}, "", "")
	if !strings.Contains(name, "_d002") {
		t.Fatalf("expected duplicate suffix after two collisions, got %s", name)
	}

	recs := a.RecordsFor("g1")
	if recs[0].DuplicateSuffix != 2 {
		t.Fatalf("expected duplicate suffix 2 recorded, got %d", recs[0].DuplicateSuffix)
	}
}

func TestAllocateSanitizesDimensions(t *testing.T) {
	a := New(t.TempDir())
	name, _ := a.Allocate(Dimensions{GameID: "g/1", TimestampLabel: "05:42", Speaker: "big al", Style: ""}, "", "")

	if strings.ContainsAny(name, "/: ") {
		t.Fatalf("expected sanitized filename, got %q", name)
	}
	if !strings.Contains(name, "unknown") {
		t.Fatalf("expected empty style replaced, got %q", name)
	}
}

func TestConcurrentAllocationsAreUnique(t *testing.T) {
	a := New(t.TempDir())
	const n = 200

	var wg sync.WaitGroup
	names := make([]string, n)
	globals := make([]int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dims := Dimensions{GameID: "g1", TimestampLabel: "p1_1000", Speaker: "al", Style: "excited"}
			if i%3 == 0 {
				dims.Speaker = "bea"
			}
			names[i], globals[i] = a.Allocate(dims, "", "")
		}(i)
	}
	wg.Wait()

	seenNames := make(map[string]struct{}, n)
	seenGlobals := make(map[int64]struct{}, n)
	for i := 0; i < n; i++ {
		if _, dup := seenNames[names[i]]; dup {
			t.Fatalf("duplicate filename %s", names[i])
		}
		seenNames[names[i]] = struct{}{}
		if _, dup := seenGlobals[globals[i]]; dup {
			t.Fatalf("duplicate global sequence %d", globals[i])
		}
		seenGlobals[globals[i]] = struct{}{}
	}

	report := a.ValidateUniqueness("g1")
	if report.TotalFiles != n || report.Duplicates != 0 {
		t.Fatalf("expected %d unique files, got %+v", n, report)
	}
}

func TestValidateUniquenessEmptyGame(t *testing.T) {
	a := New(t.TempDir())
	report := a.ValidateUniqueness("missing")
	if report.TotalFiles != 0 || report.UniqueFiles != 0 || report.Duplicates != 0 {
		t.Fatalf("expected zero report, got %+v", report)
	}
}
