// Package registry provides a small thread-safe name-to-item registry
// used to wire pluggable components, such as store backends, by name.
// Components register themselves from init() so platform-specific
// implementations can stay behind build tags.
package registry

import (
	"sort"
	"sync"

	"github.com/codename-B/OneText/pkg/errors"
)

// Registry maps names to items of one kind. Registration is
// insert-once: a name can never be rebound, so lookups stay stable for
// the life of the process.
type Registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// New creates an empty registry
func New[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Register adds an item under a name
func (r *Registry[T]) Register(name string, item T) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "%q is already registered", name)
	}
	r.items[name] = item
	return nil
}

// Get retrieves the item registered under name
func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	if !exists {
		var zero T
		return zero, errors.Newf(errors.ErrNotFound, "%q is not registered", name)
	}
	return item, nil
}

// Has reports whether name is registered
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[name]
	return exists
}

// List returns all registered names, sorted
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
