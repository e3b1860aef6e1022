// Package snapshot memoizes the assembled product snapshot for the
// lifetime of one page context.
package snapshot

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/flipsight/arbcore/internal/model"
)

// DefaultTTL is how long an assembled snapshot stays valid. The seller
// feed has its own, much shorter window; this one only bounds how long the
// page can go without a full rebuild.
const DefaultTTL = 30 * time.Minute

// BuildFunc produces a fresh snapshot. It is the assembler's Build bound to
// the current raw record.
type BuildFunc func(ctx context.Context) (*model.ProductSnapshot, error)

// Cache is a single-slot snapshot cache with in-flight coalescing. Only one
// product is active per page context, so the slot is keyed implicitly.
// Concurrent callers during an active build share the same underlying
// build instead of triggering duplicate fetch cycles. Failures are never
// cached; the next call retries.
type Cache struct {
	build  BuildFunc
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	snap     *model.ProductSnapshot
	cachedAt time.Time
	inflight *call

	// gen moves forward on every Invalidate. A build carries the gen it
	// started under; a result from an older gen is for a product the page
	// already left and must not repopulate the slot.
	gen uint64
}

// call is one shared in-flight build.
type call struct {
	done chan struct{}
	gen  uint64
	snap *model.ProductSnapshot
	err  error
}

// New creates a snapshot cache around build. logger may be nil.
func New(build BuildFunc, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache{
		build:  build,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the cached snapshot, joining an in-flight build or starting a
// new one as needed. The abandoned-caller contract holds: a build started
// here completes and populates the slot even if every caller stops waiting.
func (c *Cache) Get(ctx context.Context) (*model.ProductSnapshot, error) {
	c.mu.Lock()

	if c.snap != nil && c.now().Sub(c.cachedAt) < c.ttl {
		snap := c.snap
		c.mu.Unlock()
		return snap, nil
	}

	if c.inflight != nil {
		pending := c.inflight
		c.mu.Unlock()
		return waitForCall(ctx, pending)
	}

	pending := &call{done: make(chan struct{}), gen: c.gen}
	c.inflight = pending
	c.mu.Unlock()

	go c.run(pending)

	return waitForCall(ctx, pending)
}

// run executes the build and publishes the result to every waiter.
func (c *Cache) run(pending *call) {
	// context.Background: the fetch and cache write complete even when the
	// caller that started them abandons interest.
	snap, err := c.build(context.Background())

	c.mu.Lock()
	if c.inflight == pending {
		c.inflight = nil
	}
	switch {
	case pending.gen != c.gen:
		// Invalidated mid-build: the result belongs to the previous
		// product, so the slot stays empty for the next caller.
	case err == nil && snap != nil:
		c.snap = snap
		c.cachedAt = c.now()
	case err != nil:
		c.logger.Warn("snapshot build failed", "error", err)
	}
	c.mu.Unlock()

	pending.snap = snap
	pending.err = err
	close(pending.done)
}

func waitForCall(ctx context.Context, pending *call) (*model.ProductSnapshot, error) {
	select {
	case <-pending.done:
		return pending.snap, pending.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate resets the slot immediately. Used when the hosting page
// navigates to a different product. An in-flight build is orphaned: its
// waiters still get its result, but it cannot repopulate the slot and
// later Get calls start a fresh build instead of joining it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snap = nil
	c.cachedAt = time.Time{}
	c.inflight = nil
	c.gen++
}

// Cached returns the current snapshot without triggering a build, or nil
// when the slot is empty or expired.
func (c *Cache) Cached() *model.ProductSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap == nil || c.now().Sub(c.cachedAt) >= c.ttl {
		return nil
	}
	return c.snap
}
