package http

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// RouterConfig tunes the middleware stack.
type RouterConfig struct {
	CORSOrigin     string
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	// TrustProxy keys rate limits by X-Forwarded-For.
	TrustProxy bool
}

// NewRouter registers every route and wraps the mux in the middleware stack.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	limiter := NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, cfg.TrustProxy)
	return Chain(mux,
		RequestID,
		Recover(h.log),
		RequestLogger(h.log),
		EnableCORS(cfg.CORSOrigin),
		limiter.LimitWrites,
		Timeout(cfg.RequestTimeout),
	)
}
