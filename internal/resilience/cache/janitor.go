package cache

import (
	"context"
	"log/slog"
	"time"
)

// Janitor periodically sweeps expired entries out of a Memory store.
type Janitor struct {
	store    *Memory
	interval time.Duration
}

// NewJanitor creates a janitor for store. A non-positive interval
// disables sweeping.
func NewJanitor(store *Memory, interval time.Duration) *Janitor {
	return &Janitor{store: store, interval: interval}
}

// Start runs the sweep loop until ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) {
	if j.interval <= 0 {
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := j.store.Sweep(); removed > 0 {
				slog.Debug("Cache sweep completed", "removed", removed, "remaining", j.store.Len())
			}
		}
	}
}
