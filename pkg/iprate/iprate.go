package iprate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps a token bucket per client address.
type Limiter struct {
	ips             map[string]*rateLimiterEntry
	mu              sync.Mutex
	r               rate.Limit
	b               int
	cleanupInterval time.Duration
	expiration      time.Duration
	stop            chan struct{}
	stopOnce        sync.Once
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Option func(*Limiter)

func WithCleanupInterval(d time.Duration) Option {
	return func(l *Limiter) {
		l.cleanupInterval = d
	}
}

// WithExpiration sets how long an idle address is remembered.
func WithExpiration(d time.Duration) Option {
	return func(l *Limiter) {
		l.expiration = d
	}
}

// NewLimiter creates a new rate limit holder replenishing tokens at rate r and allowing bursts of b.
// Example:
//
//	limiter := NewLimiter(rate.Every(time.Minute/5), 5) // 5 failed attempts per minute
//	if !limiter.Allow(ip.FromRequest(r)) {
//		w.Header().Set("Retry-After", "60")
//		http.Error(w, "Too many failed authentication attempts", http.StatusTooManyRequests)
//		return
//	}
func NewLimiter(r rate.Limit, b int, opts ...Option) *Limiter {
	limiter := &Limiter{
		ips:             make(map[string]*rateLimiterEntry),
		r:               r,
		b:               b,
		cleanupInterval: 5 * time.Minute,
		expiration:      time.Hour,
		stop:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(limiter)
	}

	go limiter.cleanupLoop()

	return limiter
}

func (i *Limiter) cleanupLoop() {
	ticker := time.NewTicker(i.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			i.cleanup()
		case <-i.stop:
			return
		}
	}
}

func (i *Limiter) cleanup() {
	i.mu.Lock()
	defer i.mu.Unlock()

	expirationTime := time.Now().Add(-i.expiration)
	for ip, entry := range i.ips {
		if entry.lastSeen.Before(expirationTime) {
			delete(i.ips, ip)
		}
	}
}

// GetLimiter returns the token bucket for ip, creating it on first sight.
func (i *Limiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	entry, exists := i.ips[ip]
	if !exists {
		entry = &rateLimiterEntry{
			limiter:  rate.NewLimiter(i.r, i.b),
			lastSeen: time.Now(),
		}
		i.ips[ip] = entry
	} else {
		entry.lastSeen = time.Now()
	}

	return entry.limiter
}

// Allow consumes a token for ip and reports whether one was available.
func (i *Limiter) Allow(ip string) bool {
	return i.GetLimiter(ip).Allow()
}

// Exhausted reports whether ip has no tokens left without consuming one.
func (i *Limiter) Exhausted(ip string) bool {
	return i.GetLimiter(ip).Tokens() < 1
}

// Stop terminates the background cleanup.
func (i *Limiter) Stop() {
	i.stopOnce.Do(func() { close(i.stop) })
}
