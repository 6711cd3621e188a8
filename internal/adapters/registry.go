package adapters

import (
	"fmt"
	"sync"

	"chansync/pkg/models"
)

// Registry holds the adapter implementation for each channel code.
// Marketplace adapters register themselves at wiring time.
type Registry struct {
	mu       sync.RWMutex
	adapters map[models.ChannelCode]Adapter
}

// NewRegistry creates an empty adapter registry
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[models.ChannelCode]Adapter)}
}

// Register binds an adapter to a channel code, replacing any previous binding
func (r *Registry) Register(code models.ChannelCode, a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[code] = a
}

// Get returns the adapter for a channel code
func (r *Registry) Get(code models.ChannelCode) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[code]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for channel %s", code)
	}
	return a, nil
}
