package bets

import (
	"testing"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
)

func TestCloneIsDeep(t *testing.T) {
	u := User{
		ID:      "u1",
		Pending: []Prediction{{ID: "p1"}},
		History: []WeeklyBucket{{Week: "2024-01-06", TotalPoints: 5, Records: []HistoryRecord{{Points: 5}}}},
	}

	c := u.Clone()
	c.Pending[0].ID = "mutated"
	c.History[0].Records[0].Points = 0
	c.History[0].TotalPoints = 0

	if u.Pending[0].ID != "p1" {
		t.Fatalf("expected original pending untouched, got %s", u.Pending[0].ID)
	}
	if u.History[0].Records[0].Points != 5 || u.History[0].TotalPoints != 5 {
		t.Fatalf("expected original history untouched, got %+v", u.History[0])
	}
}

func TestFindPendingIsOrderInsensitive(t *testing.T) {
	u := User{Pending: []Prediction{
		{ID: "p1", Teams: fixtures.TeamPair{Home: "Arsenal", Away: "Chelsea"}},
		{ID: "p2", Teams: fixtures.TeamPair{Home: "Leeds", Away: "Everton"}},
	}}

	if idx := u.FindPending(fixtures.TeamPair{Home: "Everton", Away: "Leeds"}); idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
	if idx := u.FindPending(fixtures.TeamPair{Home: "Spurs", Away: "Leeds"}); idx != -1 {
		t.Fatalf("expected -1, got %d", idx)
	}
}

func TestSettlementKeyIgnoresOrientation(t *testing.T) {
	a := SettlementKey(fixtures.TeamPair{Home: "Arsenal", Away: "Chelsea"}, "2024-01-06")
	b := SettlementKey(fixtures.TeamPair{Home: "Chelsea", Away: "Arsenal"}, "2024-01-06")
	if a != b {
		t.Fatalf("expected equal keys, got %s and %s", a, b)
	}
	if a == SettlementKey(fixtures.TeamPair{Home: "Arsenal", Away: "Chelsea"}, "2024-05-04") {
		t.Fatal("expected different dates to produce different keys")
	}
}

func TestTotalPointsAndBucket(t *testing.T) {
	u := User{History: []WeeklyBucket{
		{Week: "2024-01-13", TotalPoints: 2},
		{Week: "2024-01-06", TotalPoints: 5},
	}}
	if u.TotalPoints() != 7 {
		t.Fatalf("expected 7 points, got %d", u.TotalPoints())
	}
	if b, ok := u.Bucket("2024-01-06"); !ok || b.TotalPoints != 5 {
		t.Fatalf("unexpected bucket %+v %v", b, ok)
	}
	if _, ok := u.Bucket("2023-12-30"); ok {
		t.Fatal("expected missing bucket")
	}
}
