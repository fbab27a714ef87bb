package config

// SourceConfig selects and tunes the upstream fixture source.
type SourceConfig struct {
	Name         string
	BaseURL      string
	APIKey       string
	Competition  string
	Timezone     string
	WindowDays   int
	MaxAttempts  int
	Backoff      Duration
	RateInterval Duration
	RateBurst    int
	FetchTimeout Duration
}

func loadSource() SourceConfig {
	return SourceConfig{
		Name:         envOrDefault(envSource, defaultSource),
		BaseURL:      envOrDefault(envSourceBaseURL, ""),
		APIKey:       envOrDefault(envSourceAPIKey, ""),
		Competition:  envOrDefault(envSourceCompetition, defaultCompetition),
		Timezone:     envOrDefault(envSourceTimezone, defaultSourceTZ),
		WindowDays:   intEnvOrDefault(envSourceWindowDays, defaultWindowDays),
		MaxAttempts:  intEnvOrDefault(envSourceAttempts, defaultAttempts),
		Backoff:      durationEnvOrDefault(envSourceBackoff, defaultBackoff),
		RateInterval: durationEnvOrDefault(envSourceRate, defaultSourceRate),
		RateBurst:    intEnvOrDefault(envSourceBurst, defaultSourceBurst),
		FetchTimeout: durationEnvOrDefault(envFetchTimeout, defaultFetchTimeout),
	}
}
