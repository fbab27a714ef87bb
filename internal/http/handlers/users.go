package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/preston-bernstein/matchday-service/internal/app/bets"
	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
)

type userRequest struct {
	Email string `json:"email"`
}

type predictionRequest struct {
	Teams    fixtures.TeamPair   `json:"teams"`
	Score    *fixtures.ScorePair `json:"score"`
	GameDate string              `json:"gameDate"`
}

// PutUser loads the user, creating it on first sight, and settles anything due.
func (h *Handler) PutUser(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req userRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, bets.KindInvalidInput, err.Error(), logger)
			return
		}
	}
	user, err := h.svc.LoadOrCreateUser(r.Context(), userID(r), strings.TrimSpace(req.Email))
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeData(w, http.StatusOK, user, logger)
}

// GetUser returns the stored user without settling.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	user, err := h.svc.User(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeData(w, http.StatusOK, user, logger)
}

// SubmitPrediction records a new pending prediction.
func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	req, ok := h.predictionBody(w, r, logger)
	if !ok {
		return
	}
	pred, err := h.svc.SubmitPrediction(r.Context(), userID(r), req.Teams, *req.Score, strings.TrimSpace(req.GameDate))
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeData(w, http.StatusCreated, pred, logger)
}

// UpdatePrediction replaces the score of an existing pending prediction.
func (h *Handler) UpdatePrediction(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	req, ok := h.predictionBody(w, r, logger)
	if !ok {
		return
	}
	pred, err := h.svc.UpdatePrediction(r.Context(), userID(r), req.Teams, *req.Score)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeData(w, http.StatusOK, pred, logger)
}

// DeletePrediction removes the pending prediction named by the home and away query parameters.
func (h *Handler) DeletePrediction(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	q := r.URL.Query()
	teams := fixtures.NewTeamPair(q.Get("home"), q.Get("away"))
	user, err := h.svc.RemovePrediction(r.Context(), userID(r), teams)
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeData(w, http.StatusOK, user, logger)
}

// ResetUser clears every pending prediction and the settled history.
func (h *Handler) ResetUser(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	user, err := h.svc.ResetUser(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeData(w, http.StatusOK, user, logger)
}

// SettleUser runs a settlement pass for one user on demand.
func (h *Handler) SettleUser(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	result, err := h.svc.SettleUser(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	writeData(w, http.StatusOK, result, logger)
}

func (h *Handler) predictionBody(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (predictionRequest, bool) {
	var req predictionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, bets.KindInvalidInput, err.Error(), logger)
		return req, false
	}
	if req.Score == nil {
		writeError(w, r, http.StatusBadRequest, bets.KindInvalidInput, "score is required", logger)
		return req, false
	}
	req.Teams = fixtures.NewTeamPair(req.Teams.Home, req.Teams.Away)
	return req, true
}

func userID(r *http.Request) string {
	return strings.TrimSpace(mux.Vars(r)["id"])
}
