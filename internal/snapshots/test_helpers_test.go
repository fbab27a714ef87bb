package snapshots

import (
	"os"
	"testing"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/fixturecache"
	"github.com/preston-bernstein/matchday-service/internal/teststubs"
)

func simpleEntry(key string) fixturecache.Entry {
	return fixturecache.Entry{
		Key:       key,
		Status:    fixturecache.StatusReady,
		Fixtures:  []fixtures.Fixture{teststubs.FinishedFixture("Arsenal", "Chelsea", 2, 1, "2024-01-06")},
		FetchedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func writeEntry(t *testing.T, w *Writer, entry fixturecache.Entry) {
	t.Helper()
	if w == nil {
		t.Fatalf("writer is nil for key %s", entry.Key)
	}
	if err := w.WriteEntry(entry); err != nil {
		t.Fatalf("failed to write entry %s: %v", entry.Key, err)
	}
}

func requireEntryExists(t *testing.T, w *Writer, key string) {
	t.Helper()
	if _, err := os.Stat(EntryPath(w.BasePath(), w.kind, key)); err != nil {
		t.Fatalf("expected entry for %s to be written: %v", key, err)
	}
}

func assertKeysEqual(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("keys length mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("keys mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}
