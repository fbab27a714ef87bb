package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
)

// Line is one settled prediction in a summary.
type Line struct {
	Teams     fixtures.TeamPair  `json:"teams"`
	Predicted fixtures.ScorePair `json:"predictedScore"`
	Actual    fixtures.ScorePair `json:"actualScore"`
	Points    int                `json:"points"`
}

// Summary describes what one settlement pass settled for a user in one week.
type Summary struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Week   string `json:"week"`

	// Points awarded by this pass; TotalPoints is the week's running total.
	Points      int       `json:"points"`
	TotalPoints int       `json:"totalPoints"`
	Lines       []Line    `json:"lines"`
	SettledAt   time.Time `json:"settledAt"`
}

// Notifier delivers settlement summaries.
type Notifier interface {
	Notify(ctx context.Context, s Summary) error
}

// Subject returns the message subject line.
func Subject(s Summary) string {
	return fmt.Sprintf("Your results for the weekend of %s", s.Week)
}

// FormatMessage renders a summary as plain text.
func FormatMessage(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Results for the weekend of %s\n\n", s.Week)
	for _, l := range s.Lines {
		fmt.Fprintf(&b, "%s %d-%d %s: predicted %s, %d %s\n",
			l.Teams.Home, l.Actual.Home, l.Actual.Away, l.Teams.Away,
			l.Predicted, l.Points, pointsWord(l.Points))
	}
	fmt.Fprintf(&b, "\nThis update: %d %s. Weekend total: %d %s.\n",
		s.Points, pointsWord(s.Points), s.TotalPoints, pointsWord(s.TotalPoints))
	return b.String()
}

func pointsWord(n int) string {
	if n == 1 {
		return "point"
	}
	return "points"
}
