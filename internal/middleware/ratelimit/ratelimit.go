// Package ratelimit throttles the dashboard's mutating requests per client.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"erp/internal/cache"
)

// Config holds rate limiter configuration
type Config struct {
	RequestsPerMinute int
	MaxClients        int
}

// DefaultConfig returns the limits used by the dashboard
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		MaxClients:        1000,
	}
}

type window struct {
	start    time.Time
	requests int
}

// Limiter counts requests per client in fixed one-minute windows. Client
// state lives in an LRU cache, so idle clients are forgotten once the
// cache is cleaned.
type Limiter struct {
	mu                sync.Mutex
	clients           *cache.LRUCache[*window]
	requestsPerMinute int
	now               func() time.Time
}

func NewLimiter(config Config) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = def.RequestsPerMinute
	}
	if config.MaxClients <= 0 {
		config.MaxClients = def.MaxClients
	}
	return &Limiter{
		clients:           cache.NewLRUCache[*window](config.MaxClients, 10*time.Minute),
		requestsPerMinute: config.RequestsPerMinute,
		now:               time.Now,
	}
}

// Allow checks if a request from the given client should be allowed
func (rl *Limiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, _ := rl.clients.GetOrSet(clientIP, func() *window {
		return &window{start: now}
	})
	if now.Sub(w.start) > time.Minute {
		w.start = now
		w.requests = 0
	}
	w.requests++
	return w.requests <= rl.requestsPerMinute
}

// Cache exposes the client table so a cache.Manager can expire it.
func (rl *Limiter) Cache() cache.Cleaner {
	return rl.clients
}

// ActiveClients returns the number of currently tracked clients
func (rl *Limiter) ActiveClients() int {
	return rl.clients.Size()
}

// Middleware limits requests using extractIP to identify the client.
// Safe methods pass through unchecked.
func (rl *Limiter) Middleware(extractIP func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if !rl.Allow(extractIP(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(60))
				http.Error(w, "Muitas requisições. Tente novamente em instantes.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
