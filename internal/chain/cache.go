package chain

import "sync"

// Cache maps exact expression text to its parsed segments. Entries are never
// invalidated: the key is immutable and so is the value. Reads take a shared
// lock; only the first successful parse of a text takes the write lock.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]*Segment
}

// NewCache creates an empty parse cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]*Segment)}
}

// Parse returns a fresh Chain for text with its cursor at zero. Failed
// parses are not cached.
func (c *Cache) Parse(text string) (*Chain, error) {
	c.mu.RLock()
	segments, ok := c.entries[text]
	c.mu.RUnlock()
	if ok {
		return &Chain{raw: text, segments: segments}, nil
	}

	segments, err := parse(text)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.entries[text]; ok {
		// Another goroutine won the race; share its segments.
		segments = existing
	} else {
		c.entries[text] = segments
	}
	c.mu.Unlock()

	return &Chain{raw: text, segments: segments}, nil
}

// Len returns the number of cached expressions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var defaultCache = NewCache()

// Parse parses text through the process-wide cache.
func Parse(text string) (*Chain, error) {
	return defaultCache.Parse(text)
}

// Validate reports whether text parses, without touching any cache.
func Validate(text string) error {
	_, err := parse(text)
	return err
}

// MustParse is like Parse but panics on malformed text. Intended for
// expressions fixed at compile time.
func MustParse(text string) *Chain {
	c, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return c
}
