package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/matchday-service/internal/app/bets"
	"github.com/preston-bernstein/matchday-service/internal/http/requestutil"
	"github.com/preston-bernstein/matchday-service/internal/logging"
)

const kindUnauthorized bets.Kind = "Unauthorized"

// AdminService covers the operations exposed to operators.
type AdminService interface {
	RunSettlementSweep(ctx context.Context) (bets.SweepReport, error)
	ResetCache(ctx context.Context) error
}

// AdminHandler exposes admin-only endpoints guarded by a bearer token.
type AdminHandler struct {
	svc    AdminService
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token disables every admin route.
func NewAdminHandler(svc AdminService, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		svc:    svc,
		token:  token,
		logger: logger,
	}
}

// RunSettlements triggers a settlement sweep over every user and returns its report.
func (h *AdminHandler) RunSettlements(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	report, err := h.svc.RunSettlementSweep(r.Context())
	if err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Info(logger, "admin sweep complete",
		slog.Int("users", report.Users),
		slog.Int("settled", report.Settled),
		slog.Int(logging.FieldPoints, report.Points),
		slog.Int("failures", len(report.Failures)),
	)
	writeData(w, http.StatusOK, report, logger)
}

// ResetCache drops every cached fixture and result, including persisted snapshots.
func (h *AdminHandler) ResetCache(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if err := h.svc.ResetCache(r.Context()); err != nil {
		writeServiceError(w, r, err, logger)
		return
	}
	logging.Info(logger, "admin cache reset")
	writeData(w, http.StatusOK, map[string]string{"status": "reset"}, logger)
}

func (h *AdminHandler) guard(w http.ResponseWriter, r *http.Request) bool {
	if h.authorize(r) {
		return true
	}
	logging.Warn(h.logger, "admin unauthorized",
		slog.String(logging.FieldPath, r.URL.Path),
		slog.String("client_ip", requestutil.ClientIP(r)),
	)
	writeError(w, r, http.StatusUnauthorized, kindUnauthorized, "unauthorized", h.logger)
	return false
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := r.Header.Get("Authorization")
	return subtle.ConstantTimeCompare([]byte(got), []byte("Bearer "+h.token)) == 1
}
