// Package fcache keeps processed file contents in memory and re-reads a file
// only when its modification time changes.
package fcache

import (
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"
)

// FS is the file-system view the cache reads through.
type FS interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS reads from the host file system.
type OSFS struct{}

func (OSFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFS) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

// ProcessFunc turns fresh file content into the cached value.
type ProcessFunc[T any] func(path string, content []byte, modTime time.Time) (T, error)

// Stats counts cache traffic since creation.
type Stats struct {
	Hits   uint64
	Misses uint64
	Reads  uint64
}

type slot[T any] struct {
	mu      sync.Mutex
	valid   bool
	modTime time.Time
	value   T
}

// Cache memoizes ProcessFunc results per path.
type Cache[T any] struct {
	fsys    FS
	process ProcessFunc[T]

	mu    sync.Mutex
	slots map[string]*slot[T]
	stats Stats
}

// New creates a cache; a nil fsys means OSFS.
func New[T any](process ProcessFunc[T], fsys FS) *Cache[T] {
	if process == nil {
		panic("fcache: nil process func")
	}
	if fsys == nil {
		fsys = OSFS{}
	}
	return &Cache[T]{
		fsys:    fsys,
		process: process,
		slots:   make(map[string]*slot[T]),
	}
}

func (c *Cache[T]) slotFor(path string) *slot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[path]
	if !ok {
		s = &slot[T]{}
		c.slots[path] = s
	}
	return s
}

func (c *Cache[T]) count(hit, read bool) {
	c.mu.Lock()
	if hit {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	if read {
		c.stats.Reads++
	}
	c.mu.Unlock()
}

// Process returns the processed value for path. The first call reads and
// processes the file; later calls do so again only when the mtime differs
// from the one seen last time. Failed reads or processing are not remembered.
func (c *Cache[T]) Process(path string) (T, bool, error) {
	var zero T
	info, err := c.fsys.Stat(path)
	if err != nil {
		c.Invalidate(path)
		return zero, false, fmt.Errorf("stat %s: %w", path, err)
	}
	mt := info.ModTime()

	s := c.slotFor(path)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid && s.modTime.Equal(mt) {
		c.count(true, false)
		return s.value, true, nil
	}

	content, err := c.fsys.ReadFile(path)
	c.count(false, err == nil)
	if err != nil {
		s.valid = false
		return zero, false, fmt.Errorf("read %s: %w", path, err)
	}
	v, err := c.process(path, content, mt)
	if err != nil {
		s.valid = false
		return zero, false, err
	}
	s.value = v
	s.modTime = mt
	s.valid = true
	return v, false, nil
}

// Peek returns the cached value without touching the file system.
func (c *Cache[T]) Peek(path string) (T, bool) {
	c.mu.Lock()
	s, ok := c.slots[path]
	c.mu.Unlock()
	var zero T
	if !ok {
		return zero, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.valid {
		return zero, false
	}
	return s.value, true
}

// Invalidate forgets path so the next Process call reads it again.
func (c *Cache[T]) Invalidate(path string) {
	c.mu.Lock()
	delete(c.slots, path)
	c.mu.Unlock()
}

// Len is the number of tracked paths.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slots)
}

func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
