package settlement

import (
	"sort"

	"github.com/preston-bernstein/matchday-service/internal/domain/bets"
)

// Merge folds newly settled records into the bucket for week.
// Records already present in the bucket (same settlement key) are skipped, so merging
// the same records twice never double counts. Existing records keep their order.
func Merge(existing *bets.WeeklyBucket, records []bets.HistoryRecord, week string) bets.WeeklyBucket {
	var out bets.WeeklyBucket
	if existing != nil {
		out = existing.Clone()
	} else {
		out = bets.WeeklyBucket{Week: week}
	}

	seen := make(map[string]struct{}, len(out.Records)+len(records))
	for _, r := range out.Records {
		seen[r.SettlementKey] = struct{}{}
	}

	fresh := make([]bets.HistoryRecord, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.SettlementKey]; ok {
			continue
		}
		seen[r.SettlementKey] = struct{}{}
		fresh = append(fresh, r)
	}
	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].GameDate < fresh[j].GameDate
	})

	for _, r := range fresh {
		out.TotalPoints += r.Points
		out.Records = append(out.Records, r)
	}
	return out
}

// MergeHistory merges records into a history ordered most recent week first.
// Records are grouped by the week given in weeks (parallel to records).
func MergeHistory(history []bets.WeeklyBucket, records []bets.HistoryRecord, weeks []string) []bets.WeeklyBucket {
	grouped := make(map[string][]bets.HistoryRecord)
	order := make([]string, 0)
	for i, r := range records {
		w := weeks[i]
		if _, ok := grouped[w]; !ok {
			order = append(order, w)
		}
		grouped[w] = append(grouped[w], r)
	}

	out := make([]bets.WeeklyBucket, 0, len(history)+len(order))
	for _, b := range history {
		out = append(out, b.Clone())
	}

	for _, week := range order {
		idx := -1
		for i := range out {
			if out[i].Week == week {
				idx = i
				break
			}
		}
		if idx >= 0 {
			out[idx] = Merge(&out[idx], grouped[week], week)
			continue
		}
		out = insertBucket(out, Merge(nil, grouped[week], week))
	}
	return out
}

// insertBucket places b at its position in a most-recent-first history.
func insertBucket(history []bets.WeeklyBucket, b bets.WeeklyBucket) []bets.WeeklyBucket {
	pos := sort.Search(len(history), func(i int) bool {
		return history[i].Week < b.Week
	})
	history = append(history, bets.WeeklyBucket{})
	copy(history[pos+1:], history[pos:])
	history[pos] = b
	return history
}
