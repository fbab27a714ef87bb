package fixtures

import (
	"fmt"
	"strconv"
	"strings"
)

// Status mirrors the lifecycle states a fixture can report.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusLive      Status = "LIVE"
	StatusFinished  Status = "FINISHED"
)

// ScorePair captures home and away goals.
type ScorePair struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Flip swaps home and away goals.
func (s ScorePair) Flip() ScorePair {
	return ScorePair{Home: s.Away, Away: s.Home}
}

// Valid reports whether both goal counts are non-negative.
func (s ScorePair) Valid() bool {
	return s.Home >= 0 && s.Away >= 0
}

func (s ScorePair) String() string {
	return fmt.Sprintf("%d-%d", s.Home, s.Away)
}

// ParseGoals converts a textual goal count into an integer.
func ParseGoals(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse goals %q: %w", raw, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("parse goals %q: negative", raw)
	}
	return n, nil
}

// ParseScorePair parses textual home and away goal counts.
func ParseScorePair(home, away string) (ScorePair, error) {
	h, err := ParseGoals(home)
	if err != nil {
		return ScorePair{}, err
	}
	a, err := ParseGoals(away)
	if err != nil {
		return ScorePair{}, err
	}
	return ScorePair{Home: h, Away: a}, nil
}

// Fixture is a scheduled or completed match as reported by a fixture source.
type Fixture struct {
	ID     string     `json:"id,omitempty"`
	Teams  TeamPair   `json:"teams"`
	Score  *ScorePair `json:"score,omitempty"`
	Date   string     `json:"date"`
	Status Status     `json:"status"`
}

// Finished reports whether the fixture carries a final score.
func (f Fixture) Finished() bool {
	return f.Status == StatusFinished && f.Score != nil
}

// ScoreFor returns the final score oriented to the given pair, flipping it when
// the pair lists the teams the other way round.
func (f Fixture) ScoreFor(pair TeamPair) (ScorePair, bool) {
	if !f.Finished() || !f.Teams.Same(pair) {
		return ScorePair{}, false
	}
	if f.Teams.SameOrder(pair) {
		return *f.Score, true
	}
	return f.Score.Flip(), true
}

// MatchGroup bundles the fixtures played on a single date.
type MatchGroup struct {
	Date     string    `json:"date"`
	Fixtures []Fixture `json:"fixtures"`
}

// Flatten joins match groups into a single fixture list, filling in missing dates.
func Flatten(groups []MatchGroup) []Fixture {
	total := 0
	for _, g := range groups {
		total += len(g.Fixtures)
	}
	out := make([]Fixture, 0, total)
	for _, g := range groups {
		for _, f := range g.Fixtures {
			if f.Date == "" {
				f.Date = g.Date
			}
			out = append(out, f)
		}
	}
	return out
}

// AllFinished reports whether every fixture in the list has a final score.
func AllFinished(list []Fixture) bool {
	for _, f := range list {
		if !f.Finished() {
			return false
		}
	}
	return true
}

// UpcomingResponse is the payload returned by /fixtures/upcoming.
type UpcomingResponse struct {
	Saturday string    `json:"saturday"`
	Sunday   string    `json:"sunday"`
	Fixtures []Fixture `json:"fixtures"`
}
