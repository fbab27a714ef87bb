package bets

import (
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
)

// Prediction is a user's pending forecast of a fixture's final score.
type Prediction struct {
	ID             string             `json:"id"`
	Teams          fixtures.TeamPair  `json:"teams"`
	PredictedScore fixtures.ScorePair `json:"predictedScore"`
	GameDate       string             `json:"gameDate"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// HistoryRecord is an immutable, scored settlement of a prediction.
type HistoryRecord struct {
	PredictionID   string             `json:"predictionId,omitempty"`
	SettlementKey  string             `json:"settlementKey"`
	Teams          fixtures.TeamPair  `json:"teams"`
	PredictedScore fixtures.ScorePair `json:"predictedScore"`
	ActualScore    fixtures.ScorePair `json:"actualScore"`
	GameDate       string             `json:"gameDate"`
	Points         int                `json:"points"`
}

// WeeklyBucket aggregates the settled records of one match weekend.
type WeeklyBucket struct {
	Week        string          `json:"week"`
	TotalPoints int             `json:"totalPoints"`
	Records     []HistoryRecord `json:"records"`
}

// User is the per-user document persisted by the store.
type User struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Pending   []Prediction   `json:"pending"`
	History   []WeeklyBucket `json:"history"`
	Version   int64          `json:"version"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// SettlementKey identifies the fixture a record was settled from.
func SettlementKey(pair fixtures.TeamPair, date string) string {
	return pair.Key() + "@" + date
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (u User) Clone() User {
	out := u
	if u.Pending != nil {
		out.Pending = append([]Prediction(nil), u.Pending...)
	}
	if u.History != nil {
		out.History = make([]WeeklyBucket, len(u.History))
		for i, b := range u.History {
			out.History[i] = b.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the bucket.
func (b WeeklyBucket) Clone() WeeklyBucket {
	out := b
	if b.Records != nil {
		out.Records = append([]HistoryRecord(nil), b.Records...)
	}
	return out
}

// FindPending returns the index of the pending prediction for the pair, or -1.
func (u User) FindPending(pair fixtures.TeamPair) int {
	for i, p := range u.Pending {
		if p.Teams.Same(pair) {
			return i
		}
	}
	return -1
}

// Bucket returns the history bucket for a week, if any.
func (u User) Bucket(week string) (WeeklyBucket, bool) {
	for _, b := range u.History {
		if b.Week == week {
			return b, true
		}
	}
	return WeeklyBucket{}, false
}

// TotalPoints sums points over every settled week.
func (u User) TotalPoints() int {
	total := 0
	for _, b := range u.History {
		total += b.TotalPoints
	}
	return total
}
