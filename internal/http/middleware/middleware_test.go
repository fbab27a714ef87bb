package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/metrics"
	"github.com/preston-bernstein/matchday-service/internal/testutil"
)

func TestLoggingMiddlewareSetsRequestIDAndRecordsMetrics(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rec := metrics.NewRecorder()
	nextCalled := false

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		if got := RequestIDFromContext(r.Context()); got != "abc-123" {
			t.Fatalf("expected incoming request id in context, got %q", got)
		}
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/users/u1/predictions", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rr := testutil.ServeRequest(LoggingMiddleware(logger, rec, next), req)

	if !nextCalled {
		t.Fatalf("expected next handler to be called")
	}
	testutil.AssertStatus(t, rr, http.StatusTeapot)
	if got := rr.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
	out := buf.String()
	if !strings.Contains(out, "request complete") || !strings.Contains(out, "status_code=418") {
		t.Fatalf("expected completion log with status, got %s", out)
	}
	if rec.SourceCalls("http") != 0 {
		t.Fatalf("expected source metrics untouched")
	}
}

func TestLoggingMiddlewareGeneratesRequestIDWhenMissing(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := RequestIDFromContext(r.Context()); got == "" {
			t.Fatalf("expected generated request id")
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health?foo=bar", nil)
	req.Header.Set(HeaderRequestID, "bad id with spaces")
	rr := testutil.ServeRequest(LoggingMiddleware(logger, nil, next), req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	got := rr.Header().Get(HeaderRequestID)
	if got == "" || got == "bad id with spaces" {
		t.Fatalf("expected sanitized X-Request-ID header, got %q", got)
	}
}

func TestLoggingMiddlewareDefaultsLogger(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	rr := testutil.Serve(LoggingMiddleware(nil, nil, next), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestResponseWriterKeepsFirstStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}
	if w.status != 0 {
		t.Fatalf("expected zero status before write, got %d", w.status)
	}
	w.WriteHeader(http.StatusAccepted)
	w.WriteHeader(http.StatusInternalServerError)
	if w.status != http.StatusAccepted {
		t.Fatalf("expected first status kept, got %d", w.status)
	}
	if w.Unwrap() != rr {
		t.Fatalf("expected unwrap to return the underlying writer")
	}
}

func TestResponseWriterHijackUnsupported(t *testing.T) {
	w := &responseWriter{ResponseWriter: httptest.NewRecorder()}
	if _, _, err := w.Hijack(); err == nil {
		t.Fatalf("expected hijack error for recorder")
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "/health", want: "/health"},
		{in: "/fixtures/upcoming", want: "/fixtures/upcoming"},
		{in: "/users/abc", want: "/users/{id}"},
		{in: "/users/abc/", want: "/users/{id}"},
		{in: "/users/abc/predictions", want: "/users/{id}/predictions"},
		{in: "/users/xyz/settle", want: "/users/{id}/settle"},
		{in: "/admin/cache/reset", want: "/admin/cache/reset"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Fatalf("normalizePath(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Fatalf("expected empty id, got %s", got)
	}

	ctx = withRequestID(ctx, "abc123")
	if got := RequestIDFromContext(ctx); got != "abc123" {
		t.Fatalf("expected id from context, got %s", got)
	}
	if got := RequestIDFromContext(nil); got != "" {
		t.Fatalf("expected empty id for nil context, got %s", got)
	}
}

func BenchmarkLoggingMiddleware(b *testing.B) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	rec := metrics.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Microsecond)
		w.WriteHeader(http.StatusOK)
	})

	handler := LoggingMiddleware(logger, rec, next)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/u1", nil)
		handler.ServeHTTP(rr, req)
	}
}
