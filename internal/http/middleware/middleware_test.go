package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"rinkcast/internal/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMiddlewareEchoesValidRequestID(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	})

	h := LoggingMiddleware(discardLogger(), nil, next)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
	if seen != "abc-123" {
		t.Fatalf("expected request id in context, got %q", seen)
	}
}

func TestMiddlewareReplacesInvalidRequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := LoggingMiddleware(discardLogger(), nil, next)

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "bad id with spaces!")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-ID")
	if got == "" || got == "bad id with spaces!" {
		t.Fatalf("expected generated request id, got %q", got)
	}
}

func TestMiddlewareRecordsStatus(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	recorder := metrics.NewRecorder()
	h := LoggingMiddleware(discardLogger(), recorder, next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/games/game-1/state", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected status passthrough, got %d", rec.Code)
	}
}

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/health", "/health"},
		{"/ready", "/ready"},
		{"/games", "/games"},
		{"/games/game-1", "/games/:id"},
		{"/games/game-1/state", "/games/:id/state"},
		{"/games/game-1/manifest", "/games/:id/manifest"},
		{"/other", "/other"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := normalizePath(tc.in); got != tc.want {
			t.Fatalf("normalizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeRequestID(t *testing.T) {
	if got := sanitizeRequestID("valid_ID-42"); got != "valid_ID-42" {
		t.Fatalf("expected valid id kept, got %q", got)
	}
	if got := sanitizeRequestID(""); got == "" {
		t.Fatal("expected generated id for empty input")
	}
	if got := sanitizeRequestID("has spaces"); got == "has spaces" {
		t.Fatal("expected invalid id replaced")
	}
}
