// Package ratelimit provides a token-bucket limiter keyed by client.
// Generation endpoints are expensive, so the defaults are deliberately low.
package ratelimit

import (
	"sync"
	"time"
)

// bucket is one client's token bucket. Tokens refill at a steady rate up to
// the burst capacity.
type bucket struct {
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newBucket(capacity int, refillRate float64) *bucket {
	return &bucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

func (b *bucket) refillLocked(now time.Time) {
	b.tokens = min(b.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*b.refillRate)
	b.lastRefill = now
}

// take consumes one token if available.
func (b *bucket) take() (allowed bool, remaining int, retryAfter time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked(time.Now())
	if b.tokens >= 1 {
		b.tokens--
		return true, int(b.tokens), 0
	}
	// Time until one token is available.
	retryAfter = time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
	return false, 0, retryAfter
}

// Info reports the outcome of a rate limit check.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Config holds limiter settings. Limit requests per Window, with Burst
// allowed at once.
type Config struct {
	Enabled bool
	Limit   int
	Window  time.Duration
	Burst   int
}

// DefaultConfig suits a single-user tool fronting a paid model API.
func DefaultConfig() Config {
	return Config{Enabled: true, Limit: 30, Window: time.Minute, Burst: 10}
}

// Limiter tracks one token bucket per client. Idle buckets are dropped by a
// background sweep so the map does not grow without bound.
type Limiter struct {
	cfg        Config
	buckets    map[string]*bucket
	lastAccess map[string]time.Time
	mu         sync.Mutex
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewLimiter creates a limiter and starts its cleanup sweep.
func NewLimiter(cfg Config) *Limiter {
	l := &Limiter{
		cfg:        cfg,
		buckets:    make(map[string]*bucket),
		lastAccess: make(map[string]time.Time),
		stop:       make(chan struct{}),
	}
	if cfg.Enabled {
		go l.sweep()
	}
	return l
}

// Allow reports whether a request from clientID may proceed.
func (l *Limiter) Allow(clientID string) (bool, Info) {
	if !l.cfg.Enabled {
		return true, Info{Allowed: true}
	}

	l.mu.Lock()
	b, ok := l.buckets[clientID]
	if !ok {
		burst := l.cfg.Burst
		if burst <= 0 {
			burst = l.cfg.Limit
		}
		b = newBucket(burst, float64(l.cfg.Limit)/l.cfg.Window.Seconds())
		l.buckets[clientID] = b
	}
	l.lastAccess[clientID] = time.Now()
	l.mu.Unlock()

	allowed, remaining, retryAfter := b.take()
	return allowed, Info{
		Allowed:    allowed,
		Limit:      l.cfg.Limit,
		Remaining:  remaining,
		RetryAfter: retryAfter,
	}
}

// Stop halts the cleanup sweep.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-time.Hour)
			l.mu.Lock()
			for id, last := range l.lastAccess {
				if last.Before(cutoff) {
					delete(l.buckets, id)
					delete(l.lastAccess, id)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}
