package settlement

import (
	"testing"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
)

func TestPoints(t *testing.T) {
	cases := []struct {
		name      string
		predicted fixtures.ScorePair
		actual    fixtures.ScorePair
		want      int
	}{
		{"exact", fixtures.ScorePair{Home: 2, Away: 1}, fixtures.ScorePair{Home: 2, Away: 1}, 5},
		{"both home wins", fixtures.ScorePair{Home: 2, Away: 1}, fixtures.ScorePair{Home: 3, Away: 0}, 2},
		{"both draws", fixtures.ScorePair{Home: 1, Away: 1}, fixtures.ScorePair{Home: 0, Away: 0}, 2},
		{"both away wins", fixtures.ScorePair{Home: 0, Away: 1}, fixtures.ScorePair{Home: 1, Away: 4}, 2},
		{"wrong outcome", fixtures.ScorePair{Home: 2, Away: 1}, fixtures.ScorePair{Home: 1, Away: 2}, 0},
		{"draw vs win", fixtures.ScorePair{Home: 1, Away: 1}, fixtures.ScorePair{Home: 2, Away: 1}, 0},
		{"exact goalless", fixtures.ScorePair{}, fixtures.ScorePair{}, 5},
		{"double digits compare numerically", fixtures.ScorePair{Home: 10, Away: 9}, fixtures.ScorePair{Home: 10, Away: 2}, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Points(tc.predicted, tc.actual); got != tc.want {
				t.Fatalf("expected %d points, got %d", tc.want, got)
			}
		})
	}
}

func TestOutcome(t *testing.T) {
	if Outcome(fixtures.ScorePair{Home: 3, Away: 1}) != HomeWin {
		t.Fatal("expected home win")
	}
	if Outcome(fixtures.ScorePair{Home: 2, Away: 2}) != Draw {
		t.Fatal("expected draw")
	}
	if Outcome(fixtures.ScorePair{Home: 0, Away: 1}) != AwayWin {
		t.Fatal("expected away win")
	}
}
