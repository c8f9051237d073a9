package usecase

import (
	"sync"

	"SwingPull/internal/domain/models"
)

// SnapshotCache holds the single current MarketSnapshot. Read never blocks
// and returns nil before the first successful refresh. Publish replaces the
// held snapshot atomically, last writer wins by wall-clock order; readers
// never observe a partially constructed snapshot because snapshots are
// immutable once published.
type SnapshotCache struct {
	mu   sync.RWMutex
	snap *models.MarketSnapshot
}

func NewSnapshotCache() *SnapshotCache { return &SnapshotCache{} }

// Read returns the current snapshot, or nil when none has been published.
// Callers must treat the result as read-only.
func (c *SnapshotCache) Read() *models.MarketSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Publish installs snap as the current snapshot.
func (c *SnapshotCache) Publish(snap *models.MarketSnapshot) {
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}
