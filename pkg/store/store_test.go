package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return s
}

func TestLoadPatternsSeedsDefaults(t *testing.T) {
	s := openTestStore(t)

	patterns, err := s.LoadPatterns()
	if err != nil {
		t.Fatalf("LoadPatterns failed: %v", err)
	}
	if len(patterns) != len(DefaultPatterns) {
		t.Errorf("got %d patterns, want the %d defaults", len(patterns), len(DefaultPatterns))
	}

	// Seeding must persist: a second load without defaults still sees them.
	again, err := s.LoadPatterns()
	if err != nil {
		t.Fatalf("second LoadPatterns failed: %v", err)
	}
	if len(again) != len(patterns) {
		t.Error("defaults were not persisted on first load")
	}
}

func TestSavePatternsRewrites(t *testing.T) {
	s := openTestStore(t)

	if err := s.SavePatterns([]string{"*.tmp", "vendor"}); err != nil {
		t.Fatalf("SavePatterns failed: %v", err)
	}
	patterns, err := s.LoadPatterns()
	if err != nil {
		t.Fatalf("LoadPatterns failed: %v", err)
	}
	if len(patterns) != 2 || patterns[0] != "*.tmp" || patterns[1] != "vendor" {
		t.Errorf("patterns = %v, want [*.tmp vendor]", patterns)
	}
}

func TestTotalsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	totals, err := s.LoadTotals()
	if err != nil {
		t.Fatalf("LoadTotals failed: %v", err)
	}
	if totals != (Totals{}) {
		t.Errorf("fresh totals = %+v, want zero", totals)
	}

	want := Totals{ArchivesCreated: 2, FilesArchived: 10, RawBytes: 1000, CompressedBytes: 700}
	if err := s.SaveTotals(want); err != nil {
		t.Fatalf("SaveTotals failed: %v", err)
	}
	got, err := s.LoadTotals()
	if err != nil {
		t.Fatalf("LoadTotals failed: %v", err)
	}
	if got != want {
		t.Errorf("totals = %+v, want %+v", got, want)
	}
}

func TestAppendHistoryPrependsAndTrims(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < HistoryLimit+5; i++ {
		err := s.AppendHistory(BuildRecord{
			ID:        "id",
			Archive:   "a.zip",
			Files:     i,
			CreatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("AppendHistory failed: %v", err)
		}
	}

	records, err := s.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory failed: %v", err)
	}
	if len(records) != HistoryLimit {
		t.Errorf("history length = %d, want %d", len(records), HistoryLimit)
	}
	if records[0].Files != HistoryLimit+4 {
		t.Errorf("most recent record first: got Files=%d, want %d", records[0].Files, HistoryLimit+4)
	}
}

func TestGetTreatsCorruptDocumentAsAbsent(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, nil)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, PatternsKey+".json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write corrupt document: %v", err)
	}

	var patterns []string
	ok, err := s.Get(PatternsKey, &patterns)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("corrupt document must read as absent")
	}
}
