package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/preston-bernstein/matchday-service/internal/logging"
)

// LogNotifier writes summaries to the logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the rendered summary.
func (n *LogNotifier) Notify(_ context.Context, s Summary) error {
	logging.Info(n.logger, "settlement summary",
		logging.FieldUserID, s.UserID,
		logging.FieldWeek, s.Week,
		logging.FieldPoints, s.Points,
		"email", s.Email,
		"message", FormatMessage(s),
	)
	return nil
}

// Multi fans a summary out to every notifier and joins their errors.
type Multi []Notifier

// Notify delivers to every notifier, even when an earlier one fails.
func (m Multi) Notify(ctx context.Context, s Summary) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
