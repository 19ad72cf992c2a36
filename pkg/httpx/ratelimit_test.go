package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, h http.Handler, remoteAddr string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitByIPBlocksAfterBurst(t *testing.T) {
	cfg := RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	h := Chain(okHandler(), RateLimitByIP(cfg))

	require.Equal(t, http.StatusOK, doRequest(t, h, "10.0.0.1:1234", nil).Code)
	require.Equal(t, http.StatusOK, doRequest(t, h, "10.0.0.1:1234", nil).Code)

	rec := doRequest(t, h, "10.0.0.1:1234", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitKeysAreIndependent(t *testing.T) {
	cfg := RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	h := Chain(okHandler(), RateLimitByIP(cfg))

	require.Equal(t, http.StatusOK, doRequest(t, h, "10.0.0.1:1234", nil).Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(t, h, "10.0.0.1:1234", nil).Code)

	// A different client IP gets its own bucket.
	require.Equal(t, http.StatusOK, doRequest(t, h, "10.0.0.2:1234", nil).Code)
}

func TestIPKeyExtractorPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	require.Equal(t, "10.0.0.1", IPKeyExtractor(req))

	req.Header.Set("X-Real-IP", "203.0.113.9")
	require.Equal(t, "203.0.113.9", IPKeyExtractor(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.7, 203.0.113.9")
	require.Equal(t, "198.51.100.7", IPKeyExtractor(req))
}

func TestCompositeKeyExtractorSkipsEmptyParts(t *testing.T) {
	always := func(*http.Request) string { return "a" }
	never := func(*http.Request) string { return "" }

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, "a:a", CompositeKeyExtractor(":", always, never, always)(req))
}

func TestParseRateLimitFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_TEST_REQUESTS", "7")
	t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "30")
	t.Setenv("RATELIMIT_TEST_BURST", "3")

	cfg := ParseRateLimitFromEnv("TEST", StrictLimit)
	require.Equal(t, 7, cfg.RequestsPerWindow)
	require.Equal(t, 30*time.Second, cfg.Window)
	require.Equal(t, 3, cfg.Burst)

	t.Setenv("RATELIMIT_TEST_REQUESTS", "garbage")
	cfg = ParseRateLimitFromEnv("TEST", StrictLimit)
	require.Equal(t, StrictLimit.RequestsPerWindow, cfg.RequestsPerWindow)
}
