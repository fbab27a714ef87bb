package bets

import (
	"errors"
	"fmt"

	"github.com/preston-bernstein/matchday-service/internal/providers"
	"github.com/preston-bernstein/matchday-service/internal/store"
)

// Kind classifies a failed operation for callers.
type Kind string

const (
	KindSourceUnavailable   Kind = "SourceUnavailable"
	KindUserNotFound        Kind = "UserNotFound"
	KindPredictionNotFound  Kind = "PredictionNotFound"
	KindDuplicatePrediction Kind = "DuplicatePrediction"
	KindStoreFailure        Kind = "StoreFailure"
	KindInvalidInput        Kind = "InvalidInput"
	KindInternal            Kind = "Internal"
)

// Error is the failure every Service operation returns.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf classifies any error returned by the service or its dependencies.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return KindUserNotFound
	case errors.Is(err, providers.ErrSourceUnavailable):
		return KindSourceUnavailable
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrExists):
		return KindStoreFailure
	default:
		return KindInternal
	}
}

// storeError maps a store failure for user id onto a service error.
func storeError(id string, err error) *Error {
	if errors.Is(err, store.ErrNotFound) {
		return newError(KindUserNotFound, err, "user %s not found", id)
	}
	return newError(KindStoreFailure, err, "store operation for user %s failed", id)
}
