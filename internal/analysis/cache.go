package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// Cache memoizes enhanced narratives for one user session, keyed by a digest
// of the (resume text, job description) pair. Entries are never evicted; the
// cache lives exactly as long as the session that owns it. Writes are
// last-write-wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewCache creates an empty narrative cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Key computes the content digest used as cache key for a resume and an
// optional secondary text (job description or chat prompt).
func Key(resumeText, secondary string) string {
	sum := sha256.Sum256([]byte(resumeText + secondary))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached narrative for the pair, if present.
func (c *Cache) Get(resumeText, secondary string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	narrative, ok := c.entries[Key(resumeText, secondary)]
	return narrative, ok
}

// Put stores a narrative for the pair, overwriting any previous entry.
func (c *Cache) Put(resumeText, secondary, narrative string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[Key(resumeText, secondary)] = narrative
}

// Len reports the number of cached narratives.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
