package fixturecache

import (
	"context"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/providers"
)

// DateFetcher loads the fixtures of one match date.
func DateFetcher(src providers.FixtureSource, date string) FetchFunc {
	return func(ctx context.Context) ([]fixtures.Fixture, error) {
		return src.FetchFixturesForDate(ctx, date)
	}
}

// MonthFetcher loads a month of results as one flat fixture list.
func MonthFetcher(src providers.FixtureSource, month string) FetchFunc {
	return func(ctx context.Context) ([]fixtures.Fixture, error) {
		groups, err := src.FetchResultsForMonth(ctx, month)
		if err != nil {
			return nil, err
		}
		return fixtures.Flatten(groups), nil
	}
}
