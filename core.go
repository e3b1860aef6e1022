// Package arbcore assembles product, seller, and pricing signals for one
// live product page into a normalized snapshot and derives resale
// profitability metrics from it. The package wires the internal components
// together; hosts construct one Core per page context.
package arbcore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/flipsight/arbcore/internal/assemble"
	"github.com/flipsight/arbcore/internal/model"
	"github.com/flipsight/arbcore/internal/pricing"
	"github.com/flipsight/arbcore/internal/ratelimit"
	"github.com/flipsight/arbcore/internal/refresh"
	"github.com/flipsight/arbcore/internal/sellerfeed"
	"github.com/flipsight/arbcore/internal/settings"
	"github.com/flipsight/arbcore/internal/snapshot"
)

// RawSource yields the current page's loosely-typed scraped record. The
// page parser lives outside this core; a nil record means the page is not
// a recognized product page.
type RawSource func(ctx context.Context) (*model.RawProduct, error)

// Options configures a Core.
type Options struct {
	Feed         sellerfeed.Config
	SnapshotTTL  time.Duration
	SettingsPath string
	FeeSchedule  pricing.FeeSchedule

	// JanitorSchedule enables periodic cache cleaning when non-empty.
	JanitorSchedule string
}

// DefaultOptions returns a working configuration.
func DefaultOptions() Options {
	return Options{
		Feed:            sellerfeed.DefaultConfig(),
		SnapshotTTL:     snapshot.DefaultTTL,
		SettingsPath:    "settings.json",
		FeeSchedule:     pricing.DefaultSchedule{},
		JanitorSchedule: refresh.DefaultSchedule,
	}
}

// Core owns the snapshot pipeline and the pricing controller for one page
// context. All state is explicit; independent instances never share cache
// or limiter state.
type Core struct {
	raw      RawSource
	feed     *sellerfeed.Client
	snaps    *snapshot.Cache
	pricing  *pricing.Controller
	janitor  *refresh.Janitor
	settings *settings.Store
	logger   *slog.Logger

	mu        sync.Mutex
	lastCycle string
}

// New builds a Core around the given raw record source.
func New(raw RawSource, opts Options, logger *slog.Logger) (*Core, error) {
	store, err := settings.Open(opts.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("opening settings: %w", err)
	}

	limiters := ratelimit.NewDefaultLimiters()
	feed := sellerfeed.NewClient(opts.Feed, limiters.SellerFeed, logger)
	assembler := assemble.New(feed, logger)

	core := &Core{
		raw:      raw,
		feed:     feed,
		pricing:  pricing.NewController(opts.FeeSchedule, store.Thresholds(), logger),
		settings: store,
		logger:   logger,
	}

	core.snaps = snapshot.New(func(ctx context.Context) (*model.ProductSnapshot, error) {
		record, err := raw(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading raw record: %w", err)
		}
		return assembler.Build(ctx, record)
	}, opts.SnapshotTTL, logger)

	if opts.JanitorSchedule != "" {
		core.janitor = refresh.NewJanitor(logger, feed)
		if err := core.janitor.Start(opts.JanitorSchedule); err != nil {
			return nil, fmt.Errorf("starting janitor: %w", err)
		}
	}

	return core, nil
}

// Snapshot returns the current product snapshot, building one when the
// cache slot is empty or expired. Concurrent callers share one build.
func (c *Core) Snapshot(ctx context.Context) (*model.ProductSnapshot, error) {
	snap, err := c.snaps.Get(ctx)
	if err != nil {
		return nil, err
	}

	// Feed the pricing controller once per build cycle; repeated reads of
	// the same snapshot must not clobber in-progress user edits.
	c.mu.Lock()
	if snap != nil && snap.CycleID != c.lastCycle {
		c.lastCycle = snap.CycleID
		c.pricing.LoadSnapshot(snap)
	}
	c.mu.Unlock()

	return snap, nil
}

// Pricing exposes the pricing controller for the UI's mutator operations.
func (c *Core) Pricing() *pricing.Controller {
	return c.pricing
}

// Settings exposes the threshold store.
func (c *Core) Settings() *settings.Store {
	return c.settings
}

// Invalidate resets the snapshot slot, the product's feed entry, and the
// pricing controller's product-derived state, re-arming the one-shot cost
// seeding. The host calls this when its navigation detector sees a new
// product.
func (c *Core) Invalidate() {
	if snap := c.snaps.Cached(); snap != nil {
		c.feed.InvalidateProduct(snap.Basic.ProductID)
	}
	c.snaps.Invalidate()
	c.pricing.ResetForNewProduct()

	c.mu.Lock()
	c.lastCycle = ""
	c.mu.Unlock()
}

// Close stops background maintenance.
func (c *Core) Close() {
	if c.janitor != nil {
		c.janitor.Stop()
	}
}
