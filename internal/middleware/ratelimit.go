// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter throttles requests per client IP over a sliding window.
// It fronts only the credential routes (login, register), so the
// working set is small and a single map behind one mutex is enough.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	stop   chan struct{}
}

// NewRateLimiter allows limit requests per window per client and starts
// a janitor that drops clients with no activity inside the window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		stop:   make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

// Stop shuts the janitor goroutine down.
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

// allow records a hit for key and reports whether it fits the window.
func (rl *RateLimiter) allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := rl.hits[key][:0]
	for _, t := range rl.hits[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.hits[key] = recent
		return false
	}
	rl.hits[key] = append(recent, now)
	return true
}

func (rl *RateLimiter) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}

		cutoff := time.Now().Add(-rl.window)
		rl.mu.Lock()
		for key, times := range rl.hits {
			if len(times) == 0 || !times[len(times)-1].After(cutoff) {
				delete(rl.hits, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware answers 429 with a Retry-After hint once a client exceeds
// its allowance.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the client address behind a reverse proxy. The
// leftmost X-Forwarded-For entry is the original client; X-Real-IP is
// the single-proxy variant. Without either the socket address is used.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
