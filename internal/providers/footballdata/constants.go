package footballdata

import "time"

const (
	defaultBaseURL     = "https://api.football-data.org/v4"
	defaultCompetition = "PL"
	defaultHTTPTimeout = 10 * time.Second
	defaultTimezone    = "Europe/London"
	defaultWindowDays  = 10
	maxErrorBody       = 512
)
