package quotes

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"stocklens/internal/models"
)

// Fetcher loads the quote set for one item from the upstream API.
type Fetcher interface {
	GetItemQuotes(ctx context.Context, itemName string) ([]models.SupplierQuote, error)
}

// Cache memoizes quote sets per item. Entries are populated lazily on
// first access and only ever replaced wholesale: a mutation touching an
// item's quotes busts the whole entry, never patches it.
//
// A Cache is instantiated and injected per service instance, never held
// as a package singleton, so tests stay isolated.
type Cache struct {
	fetcher Fetcher

	mu      sync.RWMutex
	entries map[string][]models.SupplierQuote

	// generation is bumped by every Bust/BustAll. A fetch that started
	// under an older generation must not store its result or serve it
	// past an invalidation.
	generation uint64

	// group coalesces concurrent fetches for the same uncached item into
	// one upstream call, resolved identically to every waiter.
	group singleflight.Group
}

// flight carries a fetch result together with the generation it started
// under, so callers can tell whether an invalidation overtook it.
type flight struct {
	quotes []models.SupplierQuote
	gen    uint64
}

func NewCache(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher: fetcher,
		entries: make(map[string][]models.SupplierQuote),
	}
}

// Get returns the cached quote set for itemName, fetching it on first
// access. A successful empty result is cached as an empty set, not
// treated as a miss. Fetch failures are returned to every waiter and not
// cached; the next Get retries.
//
// A result that resolves after an invalidation is discarded, never
// stored, and the caller fetches again: a bust cannot be undone by a
// fetch that was already in flight when the mutation landed.
func (c *Cache) Get(ctx context.Context, itemName string) ([]models.SupplierQuote, error) {
	for {
		c.mu.RLock()
		cached, ok := c.entries[itemName]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		v, err, _ := c.group.Do(itemName, func() (interface{}, error) {
			c.mu.RLock()
			gen := c.generation
			c.mu.RUnlock()

			// The fetch is shared by every coalesced waiter; one
			// caller's cancellation must not fail the others.
			fetched, err := c.fetcher.GetItemQuotes(context.WithoutCancel(ctx), itemName)
			if err != nil {
				return nil, err
			}

			c.mu.Lock()
			if c.generation == gen {
				c.entries[itemName] = fetched
			}
			c.mu.Unlock()
			return flight{quotes: fetched, gen: gen}, nil
		})
		if err != nil {
			return nil, err
		}

		res := v.(flight)
		c.mu.RLock()
		current := c.generation
		c.mu.RUnlock()
		if res.gen != current {
			// An invalidation landed while the fetch was in flight, so
			// the result predates the mutation. Go again.
			continue
		}
		return res.quotes, nil
	}
}

// Bust evicts exactly one item's entry. The next Get triggers exactly one
// new fetch; an in-flight fetch for the item is forgotten so that Get
// cannot coalesce into pre-mutation data.
func (c *Cache) Bust(itemName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	delete(c.entries, itemName)
	c.group.Forget(itemName)
}

// BustAll evicts every entry; used by the explicit global refresh.
func (c *Cache) BustAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.entries = make(map[string][]models.SupplierQuote)
}
