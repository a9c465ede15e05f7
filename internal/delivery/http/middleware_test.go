package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func postFrom(h http.Handler, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/faqs", strings.NewReader(`{}`))
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

func TestLimitWrites_IgnoresForwardedForByDefault(t *testing.T) {
	h := NewRateLimiter(rate.Limit(0.001), 1, false).LimitWrites(okHandler)

	assert.Equal(t, http.StatusOK, postFrom(h, "203.0.113.7:5000", "10.0.0.1"))
	for _, fwd := range []string{"10.0.0.2", "10.0.0.3", "10.0.0.4, 10.0.0.5"} {
		assert.Equal(t, http.StatusTooManyRequests, postFrom(h, "203.0.113.7:5001", fwd), fwd)
	}
	assert.Equal(t, http.StatusOK, postFrom(h, "198.51.100.1:5000", ""), "another client has its own bucket")
}

func TestLimitWrites_TrustedProxyKeysByForwardedFor(t *testing.T) {
	h := NewRateLimiter(rate.Limit(0.001), 1, true).LimitWrites(okHandler)

	assert.Equal(t, http.StatusOK, postFrom(h, "10.0.0.1:80", "203.0.113.7"))
	assert.Equal(t, http.StatusOK, postFrom(h, "10.0.0.1:80", "203.0.113.8, 10.0.0.9"))
	assert.Equal(t, http.StatusTooManyRequests, postFrom(h, "10.0.0.1:80", "203.0.113.7"))
	assert.Equal(t, http.StatusOK, postFrom(h, "10.0.0.1:80", ""), "falls back to the remote address")
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(rate.Limit(1), 1, false)
	rl.now = func() time.Time { return now }

	rl.limiter("203.0.113.1")
	rl.limiter("203.0.113.2")
	require.Equal(t, 2, rl.size())

	now = now.Add(limiterIdleTTL / 2)
	rl.limiter("203.0.113.2")

	now = now.Add(limiterIdleTTL * 3 / 4)
	rl.limiter("203.0.113.3")
	assert.Equal(t, 2, rl.size(), "203.0.113.1 was idle past the TTL")

	now = now.Add(2 * limiterIdleTTL)
	rl.limiter("203.0.113.3")
	assert.Equal(t, 1, rl.size())
}

func TestDecodeJSON_RejectsOversizedBody(t *testing.T) {
	s := newTestServer(t, RouterConfig{})

	big := `{"question":"` + strings.Repeat("x", maxBodyBytes) + `","answer":"a"}`
	rec, body := s.do(t, http.MethodPost, "/api/faqs", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Request body too large", body["error"])
}
