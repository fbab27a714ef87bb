package fixturecache

import (
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
)

// Status tells a known-empty key apart from one with fixtures.
// A key missing from the cache is unknown.
type Status string

const (
	StatusReady Status = "ready"
	StatusEmpty Status = "empty"
)

// Entry is the cached answer for one key.
type Entry struct {
	Key       string             `json:"key"`
	Status    Status             `json:"status"`
	Fixtures  []fixtures.Fixture `json:"fixtures"`
	FetchedAt time.Time          `json:"fetchedAt"`
}

// Empty reports whether the source answered with no fixtures for the key.
func (e Entry) Empty() bool {
	return e.Status == StatusEmpty
}

// Final reports whether every fixture in the entry has a final score.
func (e Entry) Final() bool {
	return fixtures.AllFinished(e.Fixtures)
}

func (e Entry) clone() Entry {
	out := e
	if e.Fixtures != nil {
		out.Fixtures = append([]fixtures.Fixture(nil), e.Fixtures...)
	}
	return out
}

// CacheAll stores every entry.
func CacheAll(Entry) bool { return true }

// CacheFinal stores empty entries and entries whose fixtures have all finished.
// A batch still in play is served to its callers but fetched again next time.
func CacheFinal(e Entry) bool {
	return e.Empty() || e.Final()
}
