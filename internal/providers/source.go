package providers

import (
	"context"
	"errors"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
)

var (
	// ErrNoData reports that the source answered and has nothing for the key.
	ErrNoData = errors.New("no fixture data for key")
	// ErrSourceUnavailable reports that the source could not be reached or answered badly.
	ErrSourceUnavailable = errors.New("fixture source unavailable")
)

// FixtureSource fetches fixtures and results from an upstream provider.
// Dates are YYYY-MM-DD strings and months are YYYY-MM strings.
// Implementations return ErrNoData when the key legitimately has no fixtures.
type FixtureSource interface {
	FetchFixturesForDate(ctx context.Context, date string) ([]fixtures.Fixture, error)
	FetchResultsForMonth(ctx context.Context, month string) ([]fixtures.MatchGroup, error)
}

// IsNoData reports whether err means the key has no fixtures.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}
