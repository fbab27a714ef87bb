package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port        string
	LogLevel    string
	LogFormat   string
	AdminToken  string
	CORSOrigins []string
	Source      SourceConfig
	Store       StoreConfig
	Notify      NotifyConfig
	Metrics     MetricsConfig
	Snapshots   SnapshotConfig
	Sweep       SweepConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:        envOrDefault(envPort, defaultPort),
		LogLevel:    envOrDefault(envLogLevel, defaultLogLevel),
		LogFormat:   envOrDefault(envLogFormat, defaultLogFormat),
		AdminToken:  envOrDefault(envAdminToken, ""),
		CORSOrigins: listEnv(envCORSOrigins),
		Source:      loadSource(),
		Store:       loadStore(),
		Notify:      loadNotify(),
		Metrics:     loadMetrics(),
		Snapshots:   loadSnapshots(),
		Sweep:       loadSweep(),
	}
}

// LoadDotEnv loads variables from the given .env files (default ".env") without
// overriding the environment. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
