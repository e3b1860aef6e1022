package ratelimit

import (
	"errors"
	"sync"
	"time"
)

// ErrRateLimitExceeded is returned by RunGuarded when the window is full.
// There is no wait queue; callers surface the condition or retry later.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// Limiter implements a sliding-window rate limiter. Each named instance
// owns its own window state; there is no cross-limiter sharing.
type Limiter struct {
	name        string
	maxRequests int
	window      time.Duration
	stamps      []time.Time
	mu          sync.Mutex
	now         func() time.Time
}

// NewLimiter creates a sliding-window limiter allowing maxRequests calls
// per window.
func NewLimiter(name string, maxRequests int, window time.Duration) *Limiter {
	return &Limiter{
		name:        name,
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// Name returns the limiter's instance name.
func (l *Limiter) Name() string {
	return l.name
}

// CanProceed reports whether a call would currently be admitted. It prunes
// timestamps older than the window before comparing against the budget.
func (l *Limiter) CanProceed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune()
	return len(l.stamps) < l.maxRequests
}

// Record charges one call against the window. Call it only after a
// permitted call actually executed.
func (l *Limiter) Record() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stamps = append(l.stamps, l.now())
}

// Occupancy returns the number of calls currently counted in the window.
func (l *Limiter) Occupancy() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune()
	return len(l.stamps)
}

// prune drops stamps older than the window. Must be called with the mutex held.
func (l *Limiter) prune() {
	cutoff := l.now().Add(-l.window)
	kept := l.stamps[:0]
	for _, ts := range l.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.stamps = kept
}

// RunGuarded runs fn under the limiter's admission control. A full window
// fails immediately with ErrRateLimitExceeded. Errors from fn are not
// recorded against the budget, so a down endpoint does not consume the
// allowance.
//
// The check-run-record sequence does not hold the lock across fn, so
// callers racing into a nearly-full window can briefly overshoot
// maxRequests. The limiters here pace polite outbound scraping, where the
// window is a soft budget; an exact ceiling would need a reservation
// charged before fn and refunded on error.
func RunGuarded[T any](l *Limiter, fn func() (T, error)) (T, error) {
	var zero T
	if !l.CanProceed() {
		return zero, ErrRateLimitExceeded
	}

	out, err := fn()
	if err != nil {
		return zero, err
	}

	l.Record()
	return out, nil
}

// Limiters bundles the named limiter instances used by the core.
type Limiters struct {
	SellerFeed *Limiter
	Notify     *Limiter
}

// NewDefaultLimiters creates limiters with conservative defaults for each
// outbound call class.
func NewDefaultLimiters() *Limiters {
	return &Limiters{
		// Seller feed: keep well below anything that looks like scraping abuse.
		SellerFeed: NewLimiter("seller-feed", 10, time.Minute),

		// Outbound notifications: bursty but rare.
		Notify: NewLimiter("notify", 5, time.Minute),
	}
}
