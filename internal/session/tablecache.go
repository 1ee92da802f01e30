package session

import (
	"sync"

	"macromood/internal/align"
	"macromood/internal/pricedata"
)

type tableKey struct {
	symbol string
	year   int
}

// TableCache memoizes successful price-table loads by (symbol, year).
// Tables are immutable after load, so entries need no invalidation beyond
// process exit. Failed loads are not cached; a missing file may appear
// between selections and a re-probe is one stat call.
type TableCache struct {
	loader align.TableLoader

	mu     sync.Mutex
	tables map[tableKey]*pricedata.Table
}

// NewTableCache wraps a loader with memoization.
func NewTableCache(loader align.TableLoader) *TableCache {
	return &TableCache{
		loader: loader,
		tables: make(map[tableKey]*pricedata.Table),
	}
}

// Load returns the memoized table for (symbol, year), loading it on first
// use.
func (c *TableCache) Load(symbol string, year int) (*pricedata.Table, error) {
	key := tableKey{symbol: symbol, year: year}

	c.mu.Lock()
	if table, ok := c.tables[key]; ok {
		c.mu.Unlock()
		return table, nil
	}
	c.mu.Unlock()

	table, err := c.loader.Load(symbol, year)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.tables[key] = table
	c.mu.Unlock()
	return table, nil
}

var _ align.TableLoader = (*TableCache)(nil)
