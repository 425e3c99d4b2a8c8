// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

// Package ratelimit throttles API traffic per client IP with fixed-window
// counters kept in Redis.
package ratelimit

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/natours/identity/pkg/errutil"
)

// CodeLimited is the error code for a request over budget.
const CodeLimited = "RATE_LIMITED"

const limitedMessage = "Too many requests from this IP address, please try again later"

// Defaults applied when Config leaves a field zero.
const (
	DefaultMax    = 300
	DefaultWindow = time.Hour
	DefaultPrefix = "natours:rl:"
)

// Config tunes a Limiter.
type Config struct {
	Max    int
	Window time.Duration
	Prefix string
}

// Decision is the outcome of counting one request.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// ErrorHandler renders a rejection.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	redis     redis.UniversalClient
	cfg       Config
	logger    *slog.Logger
	onError   ErrorHandler
	onLimited func()
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithLogger sets the logger used when Redis is unavailable.
func WithLogger(l *slog.Logger) Option {
	return func(lim *Limiter) { lim.logger = l }
}

// WithErrorHandler sets how rejections are rendered.
func WithErrorHandler(h ErrorHandler) Option {
	return func(lim *Limiter) { lim.onError = h }
}

// WithLimitedHook registers a callback run for every rejected request.
func WithLimitedHook(fn func()) Option {
	return func(lim *Limiter) { lim.onLimited = fn }
}

// New creates a Limiter backed by client.
func New(client redis.UniversalClient, cfg Config, opts ...Option) (*Limiter, error) {
	if client == nil {
		return nil, oops.Code("RATELIMIT_INVALID_CONFIG").Errorf("redis client is required")
	}
	if cfg.Max < 0 || cfg.Window < 0 {
		return nil, oops.Code("RATELIMIT_INVALID_CONFIG").
			With("max", cfg.Max).
			With("window", cfg.Window.String()).
			Errorf("limit and window must not be negative")
	}
	if cfg.Max == 0 {
		cfg.Max = DefaultMax
	}
	if cfg.Window == 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}

	lim := &Limiter{
		redis:  client,
		cfg:    cfg,
		logger: slog.Default(),
		onError: func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusTooManyRequests)
		},
		onLimited: func() {},
	}
	for _, opt := range opts {
		opt(lim)
	}
	return lim, nil
}

// Allow counts one request against key. The first hit in a window starts
// its expiry. A key found without an expiry gets one, so a crash between
// the two commands cannot pin a counter forever.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := l.cfg.Prefix + key

	count, err := l.redis.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, oops.Code("RATELIMIT_UNAVAILABLE").With("operation", "incr").Wrap(err)
	}

	ttl := l.cfg.Window
	if count == 1 {
		if err := l.redis.Expire(ctx, k, l.cfg.Window).Err(); err != nil {
			return Decision{}, oops.Code("RATELIMIT_UNAVAILABLE").With("operation", "expire").Wrap(err)
		}
	} else {
		ttl, err = l.redis.PTTL(ctx, k).Result()
		if err != nil {
			return Decision{}, oops.Code("RATELIMIT_UNAVAILABLE").With("operation", "pttl").Wrap(err)
		}
		if ttl < 0 {
			ttl = l.cfg.Window
			if err := l.redis.Expire(ctx, k, ttl).Err(); err != nil {
				return Decision{}, oops.Code("RATELIMIT_UNAVAILABLE").With("operation", "expire").Wrap(err)
			}
		}
	}

	remaining := l.cfg.Max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:    count <= int64(l.cfg.Max),
		Limit:      l.cfg.Max,
		Remaining:  remaining,
		ResetAfter: ttl,
	}, nil
}

// Middleware rejects requests from a client IP over its budget with
// RATE_LIMITED. Redis failures let the request through.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return l.Wrap(l.onError)(next)
}

// Wrap is Middleware with rejections rendered by onError instead of the
// limiter's own handler.
func (l *Limiter) Wrap(onError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return l.limit(next, onError)
	}
}

func (l *Limiter) limit(next http.Handler, onError ErrorHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		d, err := l.Allow(r.Context(), ip)
		if err != nil {
			errutil.LogErrorContext(r.Context(), l.logger, "rate limiter unavailable, allowing request", err)
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(int64(d.ResetAfter.Round(time.Second)/time.Second), 10))

		if !d.Allowed {
			l.onLimited()
			h.Set("Retry-After", strconv.FormatInt(int64(d.ResetAfter.Round(time.Second)/time.Second), 10))
			onError(w, r, oops.Code(CodeLimited).With("ip", ip).Errorf(limitedMessage))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the host part of r.RemoteAddr. Proxy headers are
// honoured upstream by rewriting RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
