package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"SwingPull/internal/domain/models"
)

func TestSnapshotCacheEmptyRead(t *testing.T) {
	c := NewSnapshotCache()
	assert.Nil(t, c.Read())
}

func TestSnapshotCachePublishRead(t *testing.T) {
	c := NewSnapshotCache()
	snap := &models.MarketSnapshot{GeneratedAt: time.Now()}
	c.Publish(snap)
	assert.Same(t, snap, c.Read())
}

func TestSnapshotCacheLastWriterWins(t *testing.T) {
	c := NewSnapshotCache()
	older := &models.MarketSnapshot{GeneratedAt: time.Now().Add(time.Hour)}
	newer := &models.MarketSnapshot{GeneratedAt: time.Now()}

	// last publish wins by call order, regardless of generation timestamps
	c.Publish(older)
	c.Publish(newer)
	assert.Same(t, newer, c.Read())
}

func TestSnapshotCacheConcurrentReaders(t *testing.T) {
	c := NewSnapshotCache()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if snap := c.Read(); snap != nil {
					// a visible snapshot is always fully formed
					assert.False(t, snap.GeneratedAt.IsZero())
				}
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		c.Publish(&models.MarketSnapshot{GeneratedAt: time.Now()})
	}
	close(stop)
	wg.Wait()
}
