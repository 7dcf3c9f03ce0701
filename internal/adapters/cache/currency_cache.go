package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// RistrettoCurrencyCache keeps resolved currency ids in memory so a run
// touching the same currency many times hits storage once.
type RistrettoCurrencyCache struct {
	cache *ristretto.Cache
}

func NewCurrencyCache(maxItems int64) (*RistrettoCurrencyCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create currency cache failed: %w", err)
	}
	return &RistrettoCurrencyCache{cache: c}, nil
}

func (c *RistrettoCurrencyCache) Get(code string) (int64, bool) {
	if v, ok := c.cache.Get(code); ok {
		id, ok := v.(int64)
		return id, ok
	}
	return 0, false
}

func (c *RistrettoCurrencyCache) Set(code string, id int64) {
	c.cache.Set(code, id, 1)
}

func (c *RistrettoCurrencyCache) Close() { c.cache.Close() }

// Wait blocks until pending sets are applied. Only useful in tests.
func (c *RistrettoCurrencyCache) Wait() { c.cache.Wait() }
