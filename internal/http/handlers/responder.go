package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/matchday-service/internal/app/bets"
	"github.com/preston-bernstein/matchday-service/internal/http/middleware"
	"github.com/preston-bernstein/matchday-service/internal/logging"
)

const maxBodyBytes = 1 << 20

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success   bool      `json:"success"`
	Kind      bets.Kind `json:"kind"`
	Message   string    `json:"message"`
	RequestID string    `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	writeJSON(w, status, successEnvelope{Success: true, Data: data}, logger)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, kind bets.Kind, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get(middleware.HeaderRequestID)
	}
	writeJSON(w, status, errorEnvelope{
		Kind:      kind,
		Message:   message,
		RequestID: reqID,
	}, logger)
}

// writeServiceError maps a service failure onto its status code and envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	kind := bets.KindOf(err)
	status := statusForKind(kind)
	message := err.Error()
	var svcErr *bets.Error
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}
	if status >= http.StatusInternalServerError {
		logging.Error(logger, "request failed", err, slog.String("kind", string(kind)))
	} else {
		logging.Warn(logger, "request rejected", slog.String("kind", string(kind)), slog.String("message", message))
	}
	writeError(w, r, status, kind, message, logger)
}

func statusForKind(kind bets.Kind) int {
	switch kind {
	case bets.KindUserNotFound, bets.KindPredictionNotFound:
		return http.StatusNotFound
	case bets.KindDuplicatePrediction:
		return http.StatusConflict
	case bets.KindInvalidInput:
		return http.StatusBadRequest
	case bets.KindSourceUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON request body into dest, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
