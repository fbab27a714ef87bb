package settlement

import "github.com/preston-bernstein/matchday-service/internal/domain/fixtures"

// Result categorizes a score by which side won.
type Result int

const (
	HomeWin Result = iota
	Draw
	AwayWin
)

const (
	exactPoints   = 5
	outcomePoints = 2
)

// Outcome returns the result category of a score.
func Outcome(s fixtures.ScorePair) Result {
	switch {
	case s.Home > s.Away:
		return HomeWin
	case s.Home < s.Away:
		return AwayWin
	default:
		return Draw
	}
}

// Points scores a prediction: 5 for the exact score, 2 for the right outcome, otherwise 0.
func Points(predicted, actual fixtures.ScorePair) int {
	if predicted == actual {
		return exactPoints
	}
	if Outcome(predicted) == Outcome(actual) {
		return outcomePoints
	}
	return 0
}
