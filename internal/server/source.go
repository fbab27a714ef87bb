package server

import (
	"log/slog"

	"github.com/preston-bernstein/matchday-service/internal/config"
	"github.com/preston-bernstein/matchday-service/internal/providers"
	"github.com/preston-bernstein/matchday-service/internal/providers/fixture"
	"github.com/preston-bernstein/matchday-service/internal/providers/footballdata"
)

func selectSource(cfg config.Config, logger *slog.Logger) providers.FixtureSource {
	switch normalizeSourceName(cfg.Source.Name, nil) {
	case "fixture", "source":
		return fixture.New()
	case "footballdata", "football-data":
		return footballdata.NewClient(footballdata.Config{
			BaseURL:     cfg.Source.BaseURL,
			APIKey:      cfg.Source.APIKey,
			Competition: cfg.Source.Competition,
			Timezone:    cfg.Source.Timezone,
			WindowDays:  cfg.Source.WindowDays,
		})
	default:
		if logger != nil {
			logger.Warn("unknown fixture source, falling back to fixture", slog.String("source", cfg.Source.Name))
		}
		return fixture.New()
	}
}
