package server

import (
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/matchday-service/internal/config"
	"github.com/preston-bernstein/matchday-service/internal/logging"
	"github.com/preston-bernstein/matchday-service/internal/notify"
)

type notifierComponents struct {
	notifier notify.Notifier
	hub      *notify.Hub
	closers  []func() error
}

// buildNotifiers fans settlement summaries out to every enabled channel. A broker that
// cannot be reached at start-up is skipped with a warning.
func buildNotifiers(cfg config.Config, logger *slog.Logger) notifierComponents {
	var c notifierComponents
	var multi notify.Multi

	if cfg.Notify.Log {
		multi = append(multi, notify.NewLogNotifier(logger))
	}
	if cfg.Notify.WebhookURL != "" {
		multi = append(multi, notify.NewWebhookNotifier(cfg.Notify.WebhookURL, nil, cfg.Notify.WebhookTimeout))
	}
	if cfg.Notify.AMQPURL != "" {
		amqpNotifier, err := notify.DialAMQP(cfg.Notify.AMQPURL, cfg.Notify.AMQPExchange)
		if err != nil {
			logging.Warn(logger, "amqp notifier disabled", slog.Any("err", err))
		} else {
			multi = append(multi, amqpNotifier)
			c.closers = append(c.closers, amqpNotifier.Close)
		}
	}
	if cfg.Notify.WebSocket {
		hub := notify.NewHub(logger, originChecker(cfg.CORSOrigins))
		c.hub = hub
		multi = append(multi, hub)
		c.closers = append(c.closers, func() error {
			hub.Close()
			return nil
		})
	}

	if len(multi) > 0 {
		c.notifier = multi
	}
	return c
}

// originChecker admits websocket upgrades from the configured CORS origins. Without
// configured origins every origin is accepted.
func originChecker(origins []string) func(*http.Request) bool {
	if len(origins) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return nil
		}
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
