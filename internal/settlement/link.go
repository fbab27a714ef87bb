package settlement

import (
	"github.com/preston-bernstein/matchday-service/internal/domain/bets"
	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/timeutil"
)

// Link pairs a finished fixture with the prediction made for it.
type Link struct {
	FixtureIndex    int
	PredictionIndex int
}

// LinkPredictions matches finished fixtures to predictions on the same two teams.
// A fixture on the prediction's game date wins. When the pair has no fixture on that date
// at all (the match was moved), the prediction takes the pair's only remaining finished
// fixture in the same month. Each fixture and each prediction appears in at most one link.
func LinkPredictions(candidates []fixtures.Fixture, predictions []bets.Prediction) []Link {
	return linkPredictions(candidates, predictions, nil)
}

// linkPredictions is LinkPredictions with fixtures whose settlement key is in settled left
// out of every link. Those fixtures still count as played on their date.
func linkPredictions(candidates []fixtures.Fixture, predictions []bets.Prediction, settled map[string]struct{}) []Link {
	byKey := make(map[string]int, len(predictions))
	for i, p := range predictions {
		key := bets.SettlementKey(p.Teams, p.GameDate)
		if _, dup := byKey[key]; !dup {
			byKey[key] = i
		}
	}

	links := make([]Link, 0)
	linkedFixture := make(map[int]struct{})
	for fi, f := range candidates {
		if _, ok := settled[bets.SettlementKey(f.Teams, f.Date)]; ok {
			linkedFixture[fi] = struct{}{}
		}
	}
	linkedPrediction := make(map[int]struct{})
	scheduled := make(map[string]struct{}, len(candidates))
	for fi, f := range candidates {
		key := bets.SettlementKey(f.Teams, f.Date)
		scheduled[key] = struct{}{}
		if _, ok := linkedFixture[fi]; ok || !f.Finished() {
			continue
		}
		pi, ok := byKey[key]
		if !ok {
			continue
		}
		delete(byKey, key)
		linkedFixture[fi] = struct{}{}
		linkedPrediction[pi] = struct{}{}
		links = append(links, Link{FixtureIndex: fi, PredictionIndex: pi})
	}

	for pi, p := range predictions {
		if _, ok := linkedPrediction[pi]; ok {
			continue
		}
		if _, ok := scheduled[bets.SettlementKey(p.Teams, p.GameDate)]; ok {
			continue
		}
		fi, ok := movedFixture(candidates, p, linkedFixture)
		if !ok {
			continue
		}
		linkedFixture[fi] = struct{}{}
		linkedPrediction[pi] = struct{}{}
		links = append(links, Link{FixtureIndex: fi, PredictionIndex: pi})
	}
	return links
}

// movedFixture returns the single unlinked finished fixture for the prediction's pair in
// the prediction's month. Two or more candidates are ambiguous and link nothing.
func movedFixture(candidates []fixtures.Fixture, p bets.Prediction, linked map[int]struct{}) (int, bool) {
	month, err := timeutil.MonthKey(p.GameDate)
	if err != nil {
		return -1, false
	}
	found := -1
	for fi, f := range candidates {
		if _, ok := linked[fi]; ok {
			continue
		}
		if !f.Finished() || !f.Teams.Same(p.Teams) {
			continue
		}
		if m, err := timeutil.MonthKey(f.Date); err != nil || m != month {
			continue
		}
		if found >= 0 {
			return -1, false
		}
		found = fi
	}
	return found, found >= 0
}
