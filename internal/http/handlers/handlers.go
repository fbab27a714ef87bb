package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/app/bets"
	domainbets "github.com/preston-bernstein/matchday-service/internal/domain/bets"
	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/poller"
)

// BetService is the slice of the bets service the public routes need.
type BetService interface {
	UpcomingFixtures(ctx context.Context) (fixtures.UpcomingResponse, error)
	User(ctx context.Context, id string) (domainbets.User, error)
	LoadOrCreateUser(ctx context.Context, id, email string) (domainbets.User, error)
	SubmitPrediction(ctx context.Context, id string, teams fixtures.TeamPair, score fixtures.ScorePair, gameDate string) (domainbets.Prediction, error)
	UpdatePrediction(ctx context.Context, id string, teams fixtures.TeamPair, score fixtures.ScorePair) (domainbets.Prediction, error)
	RemovePrediction(ctx context.Context, id string, teams fixtures.TeamPair) (domainbets.User, error)
	ResetUser(ctx context.Context, id string) (domainbets.User, error)
	SettleUser(ctx context.Context, id string) (bets.SettleResult, error)
}

type nowFunc func() time.Time

// Handler wires HTTP routes to the bets service.
type Handler struct {
	svc      BetService
	logger   *slog.Logger
	now      nowFunc
	statusFn func() poller.Status
}

// NewHandler constructs a Handler with defaults. statusFn may be nil when no sweeper runs.
func NewHandler(svc BetService, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		now:      time.Now,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, bets.KindInternal, "shutting down", h.logger)
		return
	}
	writeData(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   h.now().UTC().Format(time.RFC3339),
	}, h.logger)
}

// Ready reports readiness for traffic based on the settlement sweeper's recent runs.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn == nil {
		writeData(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeData(w, http.StatusOK, map[string]any{
			"status":      "ready",
			"lastSuccess": status.LastSuccess,
		}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, bets.KindSourceUnavailable, msg, h.logger)
}

// UpcomingFixtures returns the fixtures of the next Saturday and Sunday.
func (h *Handler) UpcomingFixtures(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	resp, err := h.svc.UpcomingFixtures(r.Context())
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Info(logger, "served upcoming fixtures",
		slog.String("saturday", resp.Saturday),
		slog.Int(logging.FieldCount, len(resp.Fixtures)),
	)
	writeData(w, http.StatusOK, resp, logger)
}

// NotFound answers unmatched routes with the error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, bets.KindInvalidInput, "route not found", loggerFromContext(r, nil))
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, bets.KindInvalidInput, "method not allowed", loggerFromContext(r, nil))
}
