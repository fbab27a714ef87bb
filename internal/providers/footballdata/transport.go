package footballdata

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/providers"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func resolveHTTPClient(client *http.Client) httpDoer {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

func resolveCompetition(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return defaultCompetition
	}
	return code
}

func resolveLocation(name string) *time.Location {
	if name == "" {
		name = defaultTimezone
	}
	if loc := providers.ResolveTimezone(name); loc != nil {
		return loc
	}
	return time.UTC
}

func resolveWindow(days int) int {
	if days <= 0 {
		return defaultWindowDays
	}
	return days
}

// retryAfter reads the wait hint of a 429 response in seconds.
func retryAfter(h http.Header) time.Duration {
	for _, key := range []string{"Retry-After", "X-RequestCounter-Reset"} {
		if v := strings.TrimSpace(h.Get(key)); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return 0
}
