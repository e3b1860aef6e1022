// Package refresh runs scheduled cache maintenance so expired entries
// don't accumulate over a long-lived page session.
package refresh

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Cleaner is anything with expired entries worth reaping.
type Cleaner interface {
	CleanCache()
}

// DefaultSchedule reaps every five minutes, an order of magnitude above
// the shortest cache TTL.
const DefaultSchedule = "@every 5m"

// Janitor periodically cleans the registered caches.
type Janitor struct {
	cron     *cron.Cron
	cleaners []Cleaner
	logger   *slog.Logger
}

// NewJanitor creates a janitor over the given cleaners. logger may be nil.
func NewJanitor(logger *slog.Logger, cleaners ...Cleaner) *Janitor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Janitor{
		cron:     cron.New(),
		cleaners: cleaners,
		logger:   logger,
	}
}

// Start begins the cleaning schedule. spec takes cron syntax; empty means
// DefaultSchedule.
func (j *Janitor) Start(spec string) error {
	if spec == "" {
		spec = DefaultSchedule
	}

	if _, err := j.cron.AddFunc(spec, j.runOnce); err != nil {
		return fmt.Errorf("scheduling cache cleaning: %w", err)
	}

	j.cron.Start()
	j.logger.Debug("cache janitor started", "schedule", spec)
	return nil
}

// Stop halts the schedule. A cleaning pass already running finishes.
func (j *Janitor) Stop() {
	j.cron.Stop()
}

func (j *Janitor) runOnce() {
	for _, c := range j.cleaners {
		c.CleanCache()
	}
	j.logger.Debug("cache cleaning pass complete", "caches", len(j.cleaners))
}
