// Package cache keeps recently loaded tables in memory so that loading the
// same file again skips parsing.
package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/GongJr0/Car-Price-Perdiction/app/frame"
)

// DefaultMaxSize is the default cache size limit (100MB)
const DefaultMaxSize = 100 * 1024 * 1024

// Stats describes the cache contents and its hit rate.
type Stats struct {
	Entries      int
	Size         int64
	MaxSize      int64
	UsagePercent float64
	Hits         int64
	Misses       int64
	HitRate      float64
}

type entry struct {
	table      *frame.Frame
	size       int64
	createTime time.Time
}

// TableCache is a size-bounded LRU cache of tables. Tables are copied in and
// out, so callers may modify what they get without affecting the cache.
// It is safe for concurrent use.
type TableCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	lru     *lruList
	size    int64
	maxSize int64
	hits    int64
	misses  int64
	logger  *slog.Logger
}

// NewTableCache creates a cache holding at most maxSize bytes of table data.
// A non-positive maxSize selects DefaultMaxSize.
func NewTableCache(maxSize int64) *TableCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &TableCache{
		entries: make(map[string]*entry),
		lru:     newLRUList(),
		maxSize: maxSize,
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger used for cache events.
func (c *TableCache) SetLogger(logger *slog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if logger != nil {
		c.logger = logger
	}
}

// Get returns a copy of the table stored under key.
func (c *TableCache) Get(key string) (*frame.Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		c.logger.Debug("table cache miss", "key", key)
		return nil, false
	}
	c.hits++
	c.lru.touch(key)
	c.logger.Debug("table cache hit", "key", key, "rows", e.table.NumRows(), "bytes", e.size)
	return e.table.Clone(), true
}

// Put stores a copy of f under key, evicting least recently used tables to
// make room. Tables larger than the whole cache are not stored and Put
// reports false.
func (c *TableCache) Put(key string, f *frame.Frame) bool {
	size := f.MemoryUsage()

	c.mu.Lock()
	defer c.mu.Unlock()

	if size > c.maxSize {
		c.logger.Debug("table too large to cache", "key", key, "bytes", size, "max_bytes", c.maxSize)
		return false
	}
	c.removeLocked(key)
	for c.size+size > c.maxSize {
		oldest, ok := c.lru.oldest()
		if !ok {
			break
		}
		c.logger.Debug("table cache evict", "key", oldest)
		c.removeLocked(oldest)
	}

	c.entries[key] = &entry{table: f.Clone(), size: size, createTime: time.Now()}
	c.size += size
	c.lru.touch(key)
	return true
}

// Remove drops the table stored under key, if any.
func (c *TableCache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

func (c *TableCache) removeLocked(key string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	c.size -= e.size
	delete(c.entries, key)
	c.lru.remove(key)
}

// Clear empties the cache. Hit and miss counters are kept.
func (c *TableCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
	c.lru = newLRUList()
	c.size = 0
}

// Stats returns a snapshot of the cache statistics.
func (c *TableCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Entries: c.lru.len(),
		Size:    c.size,
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
	}
	s.UsagePercent = float64(c.size) / float64(c.maxSize) * 100
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}
