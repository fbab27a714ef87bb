package footballdata

import (
	"fmt"
	"strings"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/providers"
)

func mapMatch(m matchResponse, loc *time.Location) (fixtures.Fixture, error) {
	date, err := providers.KickoffDate(m.UTCDate, loc)
	if err != nil {
		return fixtures.Fixture{}, fmt.Errorf("match %d: %w", m.ID, err)
	}

	f := fixtures.Fixture{
		ID:     fmt.Sprintf("%s-%d", sourceName, m.ID),
		Teams:  fixtures.NewTeamPair(teamName(m.HomeTeam), teamName(m.AwayTeam)),
		Date:   date,
		Status: mapStatus(m.Status),
	}
	if f.Status != fixtures.StatusScheduled && m.Score.FullTime.Home != nil && m.Score.FullTime.Away != nil {
		f.Score = &fixtures.ScorePair{Home: *m.Score.FullTime.Home, Away: *m.Score.FullTime.Away}
	}
	if f.Status == fixtures.StatusFinished && f.Score == nil {
		// A finished match without a full-time score cannot be settled yet.
		f.Status = fixtures.StatusLive
	}
	return f, nil
}

func teamName(t teamResponse) string {
	if name := strings.TrimSpace(t.ShortName); name != "" {
		return name
	}
	return strings.TrimSpace(t.Name)
}

func mapStatus(status string) fixtures.Status {
	switch strings.ToUpper(status) {
	case "FINISHED", "AWARDED":
		return fixtures.StatusFinished
	case "IN_PLAY", "PAUSED", "LIVE", "SUSPENDED":
		return fixtures.StatusLive
	default:
		return fixtures.StatusScheduled
	}
}
