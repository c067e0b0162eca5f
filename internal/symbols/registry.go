package symbols

import (
	"errors"
	"sync"

	"github.com/wonny/graham/internal/contracts"
)

// ErrNotLoaded is returned before the first directory is installed
var ErrNotLoaded = errors.New("symbol directory not loaded")

// Registry holds the current Directory and swaps it on refresh
type Registry struct {
	mu      sync.RWMutex
	current *Directory
}

// NewRegistry creates a registry, optionally with an initial directory
func NewRegistry(d *Directory) *Registry {
	return &Registry{current: d}
}

// Replace installs d and closes the previous directory
func (r *Registry) Replace(d *Directory) error {
	r.mu.Lock()
	old := r.current
	r.current = d
	r.mu.Unlock()

	if old != nil && old != d {
		return old.Close()
	}
	return nil
}

// Loaded reports whether a directory is installed
func (r *Registry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current != nil
}

// Contains delegates to the current directory
func (r *Registry) Contains(symbol string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return false, ErrNotLoaded
	}
	return r.current.Contains(symbol)
}

// Search delegates to the current directory
func (r *Registry) Search(query string, limit int) ([]contracts.SymbolInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.current == nil {
		return nil, ErrNotLoaded
	}
	return r.current.Search(query, limit)
}
