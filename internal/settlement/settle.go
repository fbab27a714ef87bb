package settlement

import (
	"sort"

	"github.com/preston-bernstein/matchday-service/internal/domain/bets"
	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/timeutil"
)

// WeekResult describes what one pass settled for a single week.
type WeekResult struct {
	Week        string               `json:"week"`
	TotalPoints int                  `json:"totalPoints"`
	Records     []bets.HistoryRecord `json:"records"`
}

// Pass is the outcome of settling one user against a candidate fixture list.
type Pass struct {
	User    bets.User
	Records []bets.HistoryRecord
	Weeks   []WeekResult
}

// Changed reports whether the pass settled anything.
func (p Pass) Changed() bool {
	return len(p.Records) > 0
}

// Points sums the points awarded by the pass.
func (p Pass) Points() int {
	total := 0
	for _, r := range p.Records {
		total += r.Points
	}
	return total
}

// Settle scores every pending prediction that has a finished fixture among candidates,
// removes it from pending and merges the records into history. Fixtures already settled
// in the user's history are never linked again, so every returned record was added to
// history by this pass. The input user is not modified; when nothing settles the returned
// user is the input unchanged.
func Settle(user bets.User, candidates []fixtures.Fixture) Pass {
	links := linkPredictions(candidates, user.Pending, settledKeys(user.History))
	if len(links) == 0 {
		return Pass{User: user}
	}

	settled := make(map[int]struct{}, len(links))
	records := make([]bets.HistoryRecord, 0, len(links))
	weeks := make([]string, 0, len(links))
	for _, l := range links {
		p := user.Pending[l.PredictionIndex]
		f := candidates[l.FixtureIndex]
		actual, ok := f.ScoreFor(p.Teams)
		if !ok {
			continue
		}
		records = append(records, bets.HistoryRecord{
			PredictionID:   p.ID,
			SettlementKey:  bets.SettlementKey(p.Teams, f.Date),
			Teams:          p.Teams,
			PredictedScore: p.PredictedScore,
			ActualScore:    actual,
			GameDate:       p.GameDate,
			Points:         Points(p.PredictedScore, actual),
		})
		weeks = append(weeks, weekKey(p.GameDate))
		settled[l.PredictionIndex] = struct{}{}
	}
	if len(records) == 0 {
		return Pass{User: user}
	}

	next := user.Clone()
	pending := make([]bets.Prediction, 0, len(user.Pending)-len(settled))
	for i, p := range user.Pending {
		if _, ok := settled[i]; ok {
			continue
		}
		pending = append(pending, p)
	}
	next.Pending = pending
	next.History = MergeHistory(user.History, records, weeks)

	return Pass{
		User:    next,
		Records: records,
		Weeks:   summarize(next, records, weeks),
	}
}

func settledKeys(history []bets.WeeklyBucket) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, b := range history {
		for _, r := range b.Records {
			keys[r.SettlementKey] = struct{}{}
		}
	}
	return keys
}

func summarize(user bets.User, records []bets.HistoryRecord, weeks []string) []WeekResult {
	byWeek := make(map[string][]bets.HistoryRecord)
	for i, r := range records {
		byWeek[weeks[i]] = append(byWeek[weeks[i]], r)
	}
	out := make([]WeekResult, 0, len(byWeek))
	for week, recs := range byWeek {
		bucket, _ := user.Bucket(week)
		out = append(out, WeekResult{Week: week, TotalPoints: bucket.TotalPoints, Records: recs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week > out[j].Week })
	return out
}

func weekKey(gameDate string) string {
	week, err := timeutil.WeekOf(gameDate)
	if err != nil {
		return gameDate
	}
	return week
}
