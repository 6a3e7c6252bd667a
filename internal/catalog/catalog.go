package catalog

import (
	"context"
	"sync"

	"stocklens/internal/models"
)

// Lister fetches the authoritative item list from the upstream API.
type Lister interface {
	ListInventory(ctx context.Context) ([]models.InventoryItem, error)
}

// Catalog holds the client-side copy of the item list. It is always
// refetched wholesale after a mutation, never patched locally, so
// server-computed fields stay consistent.
type Catalog struct {
	lister Lister

	mu    sync.RWMutex
	items []models.InventoryItem

	// generation guards against late responses. A refetch captures the
	// generation when it is issued; Close bumps it, so a response that
	// arrives after the catalog is retired is dropped on the floor.
	generation uint64
	closed     bool
}

func New(lister Lister) *Catalog {
	return &Catalog{lister: lister}
}

// Refresh refetches the item list. On failure the last-known-good items
// are retained, never cleared. A response resolving after Close is
// discarded without mutating state.
func (c *Catalog) Refresh(ctx context.Context) error {
	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	items, err := c.lister.ListInventory(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.generation != gen {
		return nil
	}
	c.items = items
	return nil
}

// Items returns a snapshot copy of the current item list.
func (c *Catalog) Items() []models.InventoryItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snapshot := make([]models.InventoryItem, len(c.items))
	copy(snapshot, c.items)
	return snapshot
}

// Item looks up one item by its natural key.
func (c *Catalog) Item(name string) (models.InventoryItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.Name == name {
			return item, true
		}
	}
	return models.InventoryItem{}, false
}

// Close retires the catalog. In-flight refetches that resolve afterwards
// leave state untouched.
func (c *Catalog) Close() {
	c.mu.Lock()
	c.closed = true
	c.generation++
	c.mu.Unlock()
}
