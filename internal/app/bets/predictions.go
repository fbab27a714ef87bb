package bets

import (
	"context"

	domainbets "github.com/preston-bernstein/matchday-service/internal/domain/bets"
	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/timeutil"
)

// SubmitPrediction adds a pending prediction. A second prediction for the same two
// teams is rejected with KindDuplicatePrediction, whichever way round they are given.
func (s *Service) SubmitPrediction(ctx context.Context, id string, teams fixtures.TeamPair, score fixtures.ScorePair, gameDate string) (domainbets.Prediction, error) {
	teams = fixtures.NewTeamPair(teams.Home, teams.Away)
	if err := validateTeams(teams); err != nil {
		return domainbets.Prediction{}, err
	}
	if err := validateScore(score); err != nil {
		return domainbets.Prediction{}, err
	}
	if _, err := timeutil.ParseDate(gameDate); err != nil {
		return domainbets.Prediction{}, newError(KindInvalidInput, err, "game date %q must be YYYY-MM-DD", gameDate)
	}

	var created domainbets.Prediction
	_, err := s.mutate(ctx, id, func(u *domainbets.User) error {
		if u.FindPending(teams) >= 0 {
			return newError(KindDuplicatePrediction, nil, "a prediction for %s is already pending", teams)
		}
		if settledAlready(*u, teams, gameDate) {
			return newError(KindDuplicatePrediction, nil, "%s on %s is already settled", teams, gameDate)
		}
		created = domainbets.Prediction{
			ID:             s.newID(),
			Teams:          teams,
			PredictedScore: score,
			GameDate:       gameDate,
			CreatedAt:      s.now().UTC(),
		}
		u.Pending = append(u.Pending, created)
		return nil
	})
	if err != nil {
		return domainbets.Prediction{}, err
	}
	s.logInfo(ctx, "prediction submitted", "user_id", id, "teams", teams.String(), "date", gameDate)
	return created, nil
}

// RemovePrediction deletes the pending prediction for the two teams.
func (s *Service) RemovePrediction(ctx context.Context, id string, teams fixtures.TeamPair) (domainbets.User, error) {
	if err := validateTeams(teams); err != nil {
		return domainbets.User{}, err
	}
	return s.mutate(ctx, id, func(u *domainbets.User) error {
		idx := u.FindPending(teams)
		if idx < 0 {
			return newError(KindPredictionNotFound, nil, "no pending prediction for %s", teams)
		}
		u.Pending = append(u.Pending[:idx], u.Pending[idx+1:]...)
		return nil
	})
}

// UpdatePrediction replaces the predicted score of the pending prediction for the two teams.
// The score is read in the orientation the caller gives the teams.
func (s *Service) UpdatePrediction(ctx context.Context, id string, teams fixtures.TeamPair, score fixtures.ScorePair) (domainbets.Prediction, error) {
	if err := validateTeams(teams); err != nil {
		return domainbets.Prediction{}, err
	}
	if err := validateScore(score); err != nil {
		return domainbets.Prediction{}, err
	}

	var updated domainbets.Prediction
	_, err := s.mutate(ctx, id, func(u *domainbets.User) error {
		idx := u.FindPending(teams)
		if idx < 0 {
			return newError(KindPredictionNotFound, nil, "no pending prediction for %s", teams)
		}
		p := u.Pending[idx]
		if p.Teams.SameOrder(teams) {
			p.PredictedScore = score
		} else {
			p.PredictedScore = score.Flip()
		}
		u.Pending[idx] = p
		updated = p
		return nil
	})
	if err != nil {
		return domainbets.Prediction{}, err
	}
	return updated, nil
}

// ResetUser clears pending predictions and history, keeping id and email.
func (s *Service) ResetUser(ctx context.Context, id string) (domainbets.User, error) {
	u, err := s.mutate(ctx, id, func(u *domainbets.User) error {
		u.Pending = []domainbets.Prediction{}
		u.History = []domainbets.WeeklyBucket{}
		return nil
	})
	if err != nil {
		return domainbets.User{}, err
	}
	s.logInfo(ctx, "user reset", "user_id", id)
	return u, nil
}

func validateTeams(teams fixtures.TeamPair) error {
	if !teams.Valid() {
		return newError(KindInvalidInput, nil, "two different team names are required")
	}
	return nil
}

func validateScore(score fixtures.ScorePair) error {
	if !score.Valid() {
		return newError(KindInvalidInput, nil, "score %s must not be negative", score)
	}
	return nil
}

func settledAlready(u domainbets.User, teams fixtures.TeamPair, gameDate string) bool {
	key := domainbets.SettlementKey(teams, gameDate)
	for _, b := range u.History {
		for _, r := range b.Records {
			if r.SettlementKey == key || (r.GameDate == gameDate && r.Teams.Same(teams)) {
				return true
			}
		}
	}
	return false
}
