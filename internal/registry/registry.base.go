// Package registry provides a thread-safe, generic name to instance registry.
// The server keeps its MongoDB collections here so stores and index setup
// resolve them by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"
)

// Registry maps names to items of type T.
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Register stores item under name, replacing any previous entry. isNew
// reports whether the name was unused.
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get returns the item registered under name.
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// GetOrCreate returns the existing item or registers the one built by creator.
func (r *Registry[T]) GetOrCreate(name string, creator func() (T, error)) (T, error) {
	if item, ok := r.Get(name); ok {
		return item, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.items[name]; ok {
		return item, nil
	}
	item, err := creator()
	if err != nil {
		var zero T
		return zero, err
	}
	r.items[name] = item
	return item, nil
}

// Names returns the registered names in lexical order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClearAll removes every entry, running cleanup on each when given.
func (r *Registry[T]) ClearAll(cleanup func(T) error) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for name, item := range r.items {
		if cleanup != nil {
			if err := cleanup(item); err != nil {
				return count, fmt.Errorf("cleanup %s: %w", name, err)
			}
		}
		delete(r.items, name)
		count++
	}
	return count, nil
}
