package config

import "time"

const (
	envPort        = "PORT"
	envLogLevel    = "LOG_LEVEL"
	envLogFormat   = "LOG_FORMAT"
	envAdminToken  = "ADMIN_TOKEN"
	envCORSOrigins = "CORS_ALLOWED_ORIGINS"

	envSource            = "FIXTURE_SOURCE"
	envSourceBaseURL     = "FOOTBALL_DATA_BASE_URL"
	envSourceAPIKey      = "FOOTBALL_DATA_API_KEY"
	envSourceCompetition = "FOOTBALL_DATA_COMPETITION"
	envSourceTimezone    = "FOOTBALL_DATA_TIMEZONE"
	envSourceWindowDays  = "FOOTBALL_DATA_WINDOW_DAYS"
	envSourceAttempts    = "SOURCE_MAX_ATTEMPTS"
	envSourceBackoff     = "SOURCE_BACKOFF"
	envSourceRate        = "SOURCE_RATE_INTERVAL"
	envSourceBurst       = "SOURCE_RATE_BURST"
	envFetchTimeout      = "FIXTURE_FETCH_TIMEOUT"

	envStoreDriver  = "STORE_DRIVER"
	envStoreDSN     = "STORE_DSN"
	envStoreRetries = "STORE_MAX_RETRIES"

	envNotifyLog      = "NOTIFY_LOG_ENABLED"
	envWebhookURL     = "NOTIFY_WEBHOOK_URL"
	envWebhookTimeout = "NOTIFY_WEBHOOK_TIMEOUT"
	envAMQPURL        = "NOTIFY_AMQP_URL"
	envAMQPExchange   = "NOTIFY_AMQP_EXCHANGE"
	envWebSocket      = "NOTIFY_WEBSOCKET_ENABLED"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	envSnapshotsOn        = "SNAPSHOTS_ENABLED"
	envSnapshotFolder     = "SNAPSHOT_FOLDER"
	envSnapshotSync       = "SNAPSHOT_SYNC_ENABLED"
	envSnapshotMonths     = "SNAPSHOT_SYNC_MONTHS"
	envSnapshotRate       = "SNAPSHOT_SYNC_INTERVAL"
	envSnapshotHour       = "SNAPSHOT_DAILY_HOUR"
	envSnapshotRetainDays = "SNAPSHOT_RETENTION_DAYS"

	envSweepOn          = "SWEEP_ENABLED"
	envSweepInterval    = "SWEEP_INTERVAL"
	envSweepConcurrency = "SWEEP_CONCURRENCY"

	defaultPort      = "4000"
	defaultLogLevel  = "info"
	defaultLogFormat = "text"

	defaultSource         = "fixture"
	defaultSourceTZ       = "Europe/London"
	defaultCompetition    = "PL"
	defaultWindowDays     = 10
	defaultAttempts       = 3
	defaultBackoff        = 500 * Duration(time.Millisecond)
	defaultFetchTimeout   = 15 * Duration(time.Second)
	defaultSourceBurst    = 1
	defaultWebhookTimeout = 5 * Duration(time.Second)
	// football-data.org free tier allows 10 requests per minute.
	defaultSourceRate = 6 * Duration(time.Second)

	defaultStoreDriver  = "memory"
	defaultStoreDSN     = "data/matchday.db"
	defaultStoreRetries = 5

	defaultAMQPExchange = "matchday.settlements"
	defaultMetricsPort  = "9090"
	defaultServiceName  = "matchday-service"

	defaultSnapshotsOn    = true
	defaultSnapshotFolder = "data/snapshots"
	defaultSnapshotSync   = true
	defaultSnapshotMonths = 2
	// Spaced to stay under the upstream quota during backfill.
	defaultSnapshotInterval = 10 * Duration(time.Second)
	// UTC hour for the daily refresh.
	defaultSnapshotDailyHour = 2
	defaultRetentionDays     = 120

	defaultSweepOn          = true
	defaultSweepInterval    = 30 * Duration(time.Minute)
	defaultSweepConcurrency = 4
)
