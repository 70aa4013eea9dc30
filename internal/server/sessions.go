package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/pratham/resumeats/internal/analysis"
)

// SessionRegistry hands out the per-user narrative cache. Each authenticated
// user gets one cache that lives until the server stops; there is no
// cross-user sharing. This is the explicit owner of what the cache layer
// treats as "session" state.
type SessionRegistry struct {
	mu     sync.Mutex
	caches map[uuid.UUID]*analysis.Cache
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{caches: make(map[uuid.UUID]*analysis.Cache)}
}

// CacheFor returns the narrative cache for a user, creating it on first use.
func (r *SessionRegistry) CacheFor(userID uuid.UUID) *analysis.Cache {
	r.mu.Lock()
	defer r.mu.Unlock()

	cache, ok := r.caches[userID]
	if !ok {
		cache = analysis.NewCache()
		r.caches[userID] = cache
	}
	return cache
}

// Drop discards a user's session cache.
func (r *SessionRegistry) Drop(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.caches, userID)
}
