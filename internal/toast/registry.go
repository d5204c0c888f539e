package toast

import (
	"sync"
	"time"
)

// Registry keeps one Store per visitor session.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
	opts   []Option
	now    func() time.Time
}

// NewRegistry creates a Registry whose stores are built with opts.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		stores: make(map[string]*Store),
		opts:   opts,
		now:    time.Now,
	}
}

// Get returns the Store of sessionID, creating it on first use.
func (r *Registry) Get(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[sessionID]; ok {
		s.touch()
		return s
	}
	s := NewStore(r.opts...)
	r.stores[sessionID] = s
	return s
}

// Lookup returns the Store of sessionID without creating it.
func (r *Registry) Lookup(sessionID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[sessionID]
	return s, ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Prune closes and drops the stores neither requested nor changed for
// longer than idle. Stores with an open subscription are kept. It returns
// the number of dropped sessions.
func (r *Registry) Prune(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*Store
	for id, s := range r.stores {
		if !s.Watched() && s.LastUsed().Before(cutoff) {
			stale = append(stale, s)
			delete(r.stores, id)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}
