package footballdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/domain/fixtures"
	"github.com/preston-bernstein/matchday-service/internal/providers"
	"github.com/preston-bernstein/matchday-service/internal/timeutil"
)

// Config controls how the football-data.org client reaches the upstream API.
type Config struct {
	BaseURL     string
	APIKey      string
	Competition string
	HTTPClient  *http.Client
	Timezone    string
	// WindowDays caps the dateFrom/dateTo span of a single request.
	WindowDays int
}

// Client fetches one competition's matches from football-data.org and maps them to fixtures.
type Client struct {
	baseURL     string
	apiKey      string
	competition string
	httpClient  httpDoer
	loc         *time.Location
	windowDays  int
}

// NewClient constructs a football-data.org client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:     normalizeBaseURL(cfg.BaseURL),
		apiKey:      cfg.APIKey,
		competition: resolveCompetition(cfg.Competition),
		httpClient:  resolveHTTPClient(cfg.HTTPClient),
		loc:         resolveLocation(cfg.Timezone),
		windowDays:  resolveWindow(cfg.WindowDays),
	}
}

// Name identifies the source in logs and metrics.
func (c *Client) Name() string {
	return sourceName
}

// FetchFixturesForDate returns the competition's fixtures played on date (local to the configured timezone).
func (c *Client) FetchFixturesForDate(ctx context.Context, date string) ([]fixtures.Fixture, error) {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid date %q: %w", sourceName, date, err)
	}

	// Kickoffs near midnight can sit on the neighbouring UTC day.
	matches, err := c.fetchRange(ctx, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	out := make([]fixtures.Fixture, 0, len(matches))
	for _, f := range matches {
		if f.Date == date {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: date %s: %w", sourceName, date, providers.ErrNoData)
	}
	return out, nil
}

// FetchResultsForMonth returns the competition's fixtures for a YYYY-MM month grouped by date.
func (c *Client) FetchResultsForMonth(ctx context.Context, month string) ([]fixtures.MatchGroup, error) {
	first, last, err := timeutil.MonthRange(month)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid month %q: %w", sourceName, month, err)
	}
	from, _ := timeutil.ParseDate(first)
	to, _ := timeutil.ParseDate(last)
	from, to = from.AddDate(0, 0, -1), to.AddDate(0, 0, 1)

	byDate := make(map[string][]fixtures.Fixture)
	for start := from; !start.After(to); start = start.AddDate(0, 0, c.windowDays) {
		end := start.AddDate(0, 0, c.windowDays-1)
		if end.After(to) {
			end = to
		}
		matches, err := c.fetchRange(ctx, start, end)
		if err != nil {
			return nil, err
		}
		for _, f := range matches {
			if strings.HasPrefix(f.Date, month+"-") {
				byDate[f.Date] = append(byDate[f.Date], f)
			}
		}
	}
	if len(byDate) == 0 {
		return nil, fmt.Errorf("%s: month %s: %w", sourceName, month, providers.ErrNoData)
	}

	groups := make([]fixtures.MatchGroup, 0, len(byDate))
	for date, list := range byDate {
		groups = append(groups, fixtures.MatchGroup{Date: date, Fixtures: list})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date < groups[j].Date })
	return groups, nil
}

func (c *Client) fetchRange(ctx context.Context, from, to time.Time) ([]fixtures.Fixture, error) {
	req, err := c.buildRequest(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w: %v", sourceName, providers.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &providers.RateLimitError{
			Source:     sourceName,
			StatusCode: resp.StatusCode,
			RetryAfter: retryAfter(resp.Header),
			Remaining:  resp.Header.Get("X-Requests-Available-Minute"),
			Message:    sourceName + " rate limited",
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%s: %w: unexpected status %d: %s", sourceName, providers.ErrSourceUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload matchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: %w: decode: %v", sourceName, providers.ErrSourceUnavailable, err)
	}

	out := make([]fixtures.Fixture, 0, len(payload.Matches))
	for _, m := range payload.Matches {
		f, err := mapMatch(m, c.loc)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (c *Client) buildRequest(ctx context.Context, from, to time.Time) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s/competitions/%s/matches", c.baseURL, c.competition)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("dateFrom", timeutil.FormatDate(from))
	q.Set("dateTo", timeutil.FormatDate(to))
	req.URL.RawQuery = q.Encode()

	if c.apiKey != "" {
		req.Header.Set("X-Auth-Token", c.apiKey)
	}
	return req, nil
}
