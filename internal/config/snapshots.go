package config

import "time"

// SnapshotConfig controls fixture cache persistence and its background warm-up.
type SnapshotConfig struct {
	Enabled       bool          // persist cache entries and restore them at start-up
	Folder        string        // base path for snapshots
	SyncEnabled   bool          // warm the caches in the background
	PastMonths    int           // months of results to backfill before the current one
	Interval      time.Duration // delay between snapshot fetches
	DailyHourUTC  int           // hour of day (0-23) for the daily refresh
	RetentionDays int           // persisted entries older than this are pruned; 0 keeps all
}

func loadSnapshots() SnapshotConfig {
	return SnapshotConfig{
		Enabled:       boolEnvOrDefault(envSnapshotsOn, defaultSnapshotsOn),
		Folder:        envOrDefault(envSnapshotFolder, defaultSnapshotFolder),
		SyncEnabled:   boolEnvOrDefault(envSnapshotSync, defaultSnapshotSync),
		PastMonths:    nonNegativeIntEnvOrDefault(envSnapshotMonths, defaultSnapshotMonths),
		Interval:      durationEnvOrDefault(envSnapshotRate, defaultSnapshotInterval),
		DailyHourUTC:  nonNegativeIntEnvOrDefault(envSnapshotHour, defaultSnapshotDailyHour),
		RetentionDays: nonNegativeIntEnvOrDefault(envSnapshotRetainDays, defaultRetentionDays),
	}
}
