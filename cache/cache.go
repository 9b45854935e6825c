// Package cache provides memoization for parsed process expressions.
// Grid generation reuses each expression line across the whole
// parameter grid, so caching the AST avoids reparsing the same text
// once per parameter combination.
package cache

import (
	"sync"

	"github.com/pflow-xyz/go-cpi/parser"
	"github.com/pflow-xyz/go-cpi/process"
)

// ExprCache caches parsed ASTs keyed by expression text.
type ExprCache struct {
	mu        sync.RWMutex
	cache     map[string]process.Node
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewExprCache creates a cache with the specified maximum size.
// When the cache is full, an arbitrary entry is evicted.
// Set maxSize to 0 for an unbounded cache.
func NewExprCache(maxSize int) *ExprCache {
	return &ExprCache{
		cache:   make(map[string]process.Node),
		maxSize: maxSize,
	}
}

// Get retrieves a cached AST for the given expression text.
// Returns nil if not found.
func (c *ExprCache) Get(expr string) process.Node {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.cache[expr]; ok {
		c.hits++
		return node
	}
	c.misses++
	return nil
}

// Put stores a parsed AST in the cache.
func (c *ExprCache) Put(expr string, node process.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			c.evictions++
			break
		}
	}

	c.cache[expr] = node
}

// Parse returns the AST for expr, parsing and caching it on a miss.
// The AST is immutable after parsing, so one cached copy is safely
// shared across concurrent callers.
func (c *ExprCache) Parse(expr string) (process.Node, error) {
	if node := c.Get(expr); node != nil {
		return node, nil
	}

	node, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	c.Put(expr, node)
	return node, nil
}

// Clear removes all entries from the cache.
func (c *ExprCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]process.Node)
}

// Size returns the current number of cached entries.
func (c *ExprCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats holds cache statistics.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns cache statistics.
func (c *ExprCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}
