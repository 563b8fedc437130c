// Package ratelimit implements token-bucket admission control keyed by
// caller identity and endpoint class.
package ratelimit

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Tier describes one bucket class: capacity Burst, refilled at Rate.
type Tier struct {
	Rate  rate.Limit
	Burst int
}

// PerMinute builds a tier admitting n requests per minute with capacity n.
func PerMinute(n int) Tier {
	return Tier{Rate: rate.Every(time.Minute / time.Duration(n)), Burst: n}
}

// TierConfig maps endpoint classes to bucket tiers.
type TierConfig struct {
	Auth     Tier // authentication endpoints, small and strict
	Public   Tier // read-only/public endpoints, generous
	Transfer Tier // transfer-mutating endpoints
	Default  Tier // everything else
}

func DefaultTiers() TierConfig {
	return TierConfig{
		Auth:     PerMinute(5),
		Public:   PerMinute(200),
		Transfer: PerMinute(30),
		Default:  PerMinute(100),
	}
}

// Probe is the outcome of a consumption attempt. Reset is the time
// until the bucket refills to capacity and is reported on admitted and
// rejected attempts alike; RetryAfter is the time until one token
// becomes available and is set only on rejection.
type Probe struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
	Reset      time.Duration
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Limiter holds one token bucket per (caller, endpoint class) key.
// Buckets are created lazily and shared by all requests with the same
// key; the map is guarded by a single mutex so two concurrent first
// requests cannot create two different buckets.
type Limiter struct {
	tiers        TierConfig
	idleTTL      time.Duration
	cleanupEvery time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
}

type Option func(*Limiter)

func WithIdleTTL(d time.Duration) Option {
	return func(l *Limiter) { l.idleTTL = d }
}

func WithCleanupEvery(d time.Duration) Option {
	return func(l *Limiter) { l.cleanupEvery = d }
}

func New(tiers TierConfig, opts ...Option) *Limiter {
	l := &Limiter{
		tiers:        tiers,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		buckets:      make(map[string]*bucket),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var numericSegments = regexp.MustCompile(`\d+`)

// NormalizePath collapses numeric path segments so /transactions/42 and
// /transactions/43 share one bucket.
func NormalizePath(path string) string {
	return numericSegments.ReplaceAllString(path, "{id}")
}

// Resolve returns the bucket for the caller and endpoint class,
// creating it on first use.
func (l *Limiter) Resolve(callerID, path string) *rate.Limiter {
	key := callerID + "_" + NormalizePath(path)
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if ent, ok := l.buckets[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	tier := l.tierFor(path)
	lim := rate.NewLimiter(tier.Rate, tier.Burst)
	l.buckets[key] = &bucket{lim: lim, lastSeen: now}
	return lim
}

// TryConsume takes one token from the bucket. A rejected call reports
// the exact wait until the next token; every call reports the time
// until the bucket is full again.
func (l *Limiter) TryConsume(lim *rate.Limiter) Probe {
	res := lim.Reserve()
	if !res.OK() {
		return Probe{Allowed: false, RetryAfter: time.Minute, Reset: timeToFull(lim)}
	}
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		return Probe{Allowed: false, RetryAfter: delay, Reset: timeToFull(lim)}
	}
	return Probe{Allowed: true, Remaining: int(lim.Tokens()), Reset: timeToFull(lim)}
}

// timeToFull estimates how long until the bucket holds Burst tokens.
func timeToFull(lim *rate.Limiter) time.Duration {
	deficit := float64(lim.Burst()) - lim.Tokens()
	if deficit <= 0 || lim.Limit() <= 0 {
		return 0
	}
	return time.Duration(deficit / float64(lim.Limit()) * float64(time.Second))
}

// Allow resolves the caller's bucket and attempts to consume one token.
func (l *Limiter) Allow(callerID, path string) Probe {
	return l.TryConsume(l.Resolve(callerID, path))
}

func (l *Limiter) tierFor(path string) Tier {
	switch {
	case strings.Contains(path, "/auth/"):
		return l.tiers.Auth
	case strings.Contains(path, "/public/"):
		return l.tiers.Public
	case strings.Contains(path, "/transfers"),
		strings.Contains(path, "/deposits"),
		strings.Contains(path, "/withdrawals"):
		return l.tiers.Transfer
	default:
		return l.tiers.Default
	}
}

// Cleanup drops buckets not seen within the idle TTL.
func (l *Limiter) Cleanup() {
	cutoff := time.Now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, ent := range l.buckets {
		if ent.lastSeen.Before(cutoff) {
			delete(l.buckets, k)
		}
	}
}

// StartJanitor periodically evicts idle buckets until ctx is cancelled.
func (l *Limiter) StartJanitor(ctx context.Context) {
	if l.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(l.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}
