package config

// SweepConfig controls the periodic settlement sweep.
type SweepConfig struct {
	Enabled     bool
	Interval    Duration
	Concurrency int
}

func loadSweep() SweepConfig {
	return SweepConfig{
		Enabled:     boolEnvOrDefault(envSweepOn, defaultSweepOn),
		Interval:    durationEnvOrDefault(envSweepInterval, defaultSweepInterval),
		Concurrency: intEnvOrDefault(envSweepConcurrency, defaultSweepConcurrency),
	}
}
