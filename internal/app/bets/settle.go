package bets

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	domainbets "github.com/preston-bernstein/matchday-service/internal/domain/bets"
	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/fixturecache"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/notify"
	"github.com/preston-bernstein/matchday-service/internal/settlement"
	"github.com/preston-bernstein/matchday-service/internal/store"
	"github.com/preston-bernstein/matchday-service/internal/timeutil"
)

// SettleResult reports one settlement pass for one user.
// FailedKeys lists the months whose results could not be fetched; their predictions
// stay pending.
type SettleResult struct {
	User       domainbets.User         `json:"user"`
	Settled    int                     `json:"settled"`
	Points     int                     `json:"points"`
	Weeks      []settlement.WeekResult `json:"weeks,omitempty"`
	FailedKeys []string                `json:"failedKeys,omitempty"`
}

// SweepFailure records a user the sweep could not settle.
type SweepFailure struct {
	UserID  string `json:"userId"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// SweepReport summarizes a settlement sweep over every user.
type SweepReport struct {
	Users      int            `json:"users"`
	Changed    int            `json:"changed"`
	Settled    int            `json:"settled"`
	Points     int            `json:"points"`
	FailedKeys []string       `json:"failedKeys,omitempty"`
	Failures   []SweepFailure `json:"failures,omitempty"`
	DurationMS int64          `json:"durationMs"`
}

// SourceOutage reports whether the sweep could not fetch results and settled nothing.
func (r SweepReport) SourceOutage() bool {
	return len(r.FailedKeys) > 0 && r.Settled == 0
}

// SettleUser runs one settlement pass for the user against the shared results cache.
func (s *Service) SettleUser(ctx context.Context, id string) (SettleResult, error) {
	return s.settle(ctx, id, s.results)
}

// RunSettlementSweep settles every stored user with bounded parallelism. A failure for
// one user is recorded in the report and never stops the others.
func (s *Service) RunSettlementSweep(ctx context.Context) (SweepReport, error) {
	start := time.Now()
	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		e := newError(KindStoreFailure, err, "list users")
		s.metrics.RecordSweep(time.Since(start), e)
		return SweepReport{}, e
	}

	// Month batches still in play are fetched once per sweep, not once per user.
	lookup := fixturecache.NewScoped(s.results)

	var mu sync.Mutex
	report := SweepReport{Users: len(ids)}
	failed := make(map[string]struct{})
	g := new(errgroup.Group)
	g.SetLimit(s.sweepConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			res, err := s.settle(ctx, id, lookup)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, SweepFailure{UserID: id, Kind: KindOf(err), Message: err.Error()})
				return nil
			}
			if res.Settled > 0 {
				report.Changed++
			}
			report.Settled += res.Settled
			report.Points += res.Points
			for _, k := range res.FailedKeys {
				failed[k] = struct{}{}
			}
			return nil
		})
	}
	_ = g.Wait()

	for k := range failed {
		report.FailedKeys = append(report.FailedKeys, k)
	}
	sort.Strings(report.FailedKeys)
	sort.Slice(report.Failures, func(i, j int) bool { return report.Failures[i].UserID < report.Failures[j].UserID })
	report.DurationMS = time.Since(start).Milliseconds()

	var sweepErr error
	switch {
	case len(report.Failures) > 0:
		sweepErr = errors.New("some users failed to settle")
	case report.SourceOutage():
		sweepErr = errors.New("fixture source unavailable")
	}
	s.metrics.RecordSweep(time.Since(start), sweepErr)
	s.logInfo(ctx, "settlement sweep complete",
		"users", report.Users,
		"changed", report.Changed,
		logging.FieldCount, report.Settled,
		logging.FieldPoints, report.Points,
		"failed_users", len(report.Failures),
		"failed_keys", len(report.FailedKeys),
		logging.FieldDurationMS, report.DurationMS,
	)
	return report, nil
}

// settle runs the read, link, score, merge and save steps for one user, retrying the
// whole pass when a concurrent writer moved the user's version.
func (s *Service) settle(ctx context.Context, id string, lookup fixturecache.Lookup) (SettleResult, error) {
	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		u, err := s.store.Get(ctx, id)
		if err != nil {
			return SettleResult{}, storeError(id, err)
		}
		if len(u.Pending) == 0 {
			return SettleResult{User: u}, nil
		}

		candidates, failedKeys, err := s.fetchResults(ctx, lookup, u.Pending)
		if err != nil {
			return SettleResult{}, err
		}
		pass := settlement.Settle(u, candidates)
		if !pass.Changed() {
			return SettleResult{User: u, FailedKeys: failedKeys}, nil
		}

		saved, err := s.store.Save(ctx, pass.User)
		if errors.Is(err, store.ErrConflict) {
			lastErr = err
			continue
		}
		if err != nil {
			return SettleResult{}, storeError(id, err)
		}

		res := SettleResult{
			User:       saved,
			Settled:    len(pass.Records),
			Points:     pass.Points(),
			Weeks:      pass.Weeks,
			FailedKeys: failedKeys,
		}
		s.metrics.RecordSettlement(res.Settled, res.Points)
		s.logInfo(ctx, "predictions settled",
			logging.FieldUserID, id,
			logging.FieldCount, res.Settled,
			logging.FieldPoints, res.Points,
		)
		s.notify(ctx, saved, pass.Weeks)
		return res, nil
	}
	return SettleResult{}, newError(KindStoreFailure, lastErr, "user %s kept changing during settlement, gave up after %d attempts", id, s.maxRetries)
}

// fetchResults loads the month batches covering the pending predictions concurrently and
// joins them before returning. Months that fail are reported, not fatal.
func (s *Service) fetchResults(ctx context.Context, lookup fixturecache.Lookup, pending []domainbets.Prediction) ([]fixtures.Fixture, []string, error) {
	months := pendingMonths(pending)
	entries := make([]fixturecache.Entry, len(months))
	errs := make([]error, len(months))

	g := new(errgroup.Group)
	g.SetLimit(s.fetchConcurrency)
	for i, month := range months {
		g.Go(func() error {
			entries[i], errs[i] = lookup.GetOrFetch(ctx, month, fixturecache.MonthFetcher(s.source, month))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, newError(KindSourceUnavailable, err, "results fetch interrupted")
	}

	var (
		candidates []fixtures.Fixture
		failed     []string
	)
	for i, month := range months {
		if errs[i] != nil {
			logging.Warn(logging.FromContext(ctx, s.logger), "results unavailable, predictions stay pending",
				logging.FieldCacheKey, month, "err", errs[i])
			failed = append(failed, month)
			continue
		}
		candidates = append(candidates, entries[i].Fixtures...)
	}
	return candidates, failed, nil
}

// pendingMonths returns the distinct months referenced by the predictions, in order.
func pendingMonths(pending []domainbets.Prediction) []string {
	seen := make(map[string]struct{}, len(pending))
	months := make([]string, 0, len(pending))
	for _, p := range pending {
		m, err := timeutil.MonthKey(p.GameDate)
		if err != nil {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// notify sends one summary per settled week. Delivery failures are logged and counted.
func (s *Service) notify(ctx context.Context, u domainbets.User, weeks []settlement.WeekResult) {
	if s.notifier == nil {
		return
	}
	for _, w := range weeks {
		summary := notify.Summary{
			UserID:      u.ID,
			Email:       u.Email,
			Week:        w.Week,
			TotalPoints: w.TotalPoints,
			SettledAt:   s.now().UTC(),
		}
		for _, r := range w.Records {
			summary.Points += r.Points
			summary.Lines = append(summary.Lines, notify.Line{
				Teams:     r.Teams,
				Predicted: r.PredictedScore,
				Actual:    r.ActualScore,
				Points:    r.Points,
			})
		}
		err := s.notifier.Notify(ctx, summary)
		s.metrics.RecordNotification(err)
		if err != nil {
			logging.Warn(logging.FromContext(ctx, s.logger), "settlement notification failed",
				logging.FieldUserID, u.ID, logging.FieldWeek, w.Week, "err", err)
		}
	}
}
