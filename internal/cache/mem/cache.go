// Package mem holds the most recent snapshot for readers that must not
// touch the live match, like the web layer.
package mem

import (
	"sync"

	"github.com/rsiwady29/tennis-scoreboard/internal/domain"
)

type Cache struct {
	mu    sync.RWMutex
	valid bool
	snap  domain.Snapshot
}

func New() *Cache {
	return &Cache{}
}

// Update implements service.Subscriber.
func (c *Cache) Update(snap domain.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snap = snap
	c.valid = true
}

func (c *Cache) Latest() (domain.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid {
		return domain.Snapshot{}, false
	}
	return c.snap, true
}
