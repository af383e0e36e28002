// Package memory provides in-memory storage for live session handles. Chat
// windows hold OS resources that cannot be persisted, so in-memory is the
// only backend; the registry still lives behind its own package so the
// locking discipline stays in one place.
package memory

import (
	"errors"
	"fmt"
	"sync"
)

var errEmptyID = errors.New("id cannot be empty")

// Registry is a concurrency-safe map of live values keyed by id. Values are
// handles, not records: the registry hands out the stored value itself, and
// the caller owns its lifecycle once removed.
type Registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Put stores item under id. Storing twice under the same id is an error; the
// first registration wins.
func (r *Registry[T]) Put(id string, item T) error {
	if id == "" {
		return errEmptyID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; exists {
		return fmt.Errorf("id %s already registered", id)
	}
	r.items[id] = item
	return nil
}

// Get retrieves the item stored under id.
func (r *Registry[T]) Get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return item, ok
}

// Remove deletes and returns the item stored under id. Removing a missing id
// reports false; at most one caller ever receives a given item, so teardown
// runs exactly once even when callers race.
func (r *Registry[T]) Remove(id string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if ok {
		delete(r.items, id)
	}
	return item, ok
}

// RemoveAll drains the registry and returns everything it held.
func (r *Registry[T]) RemoveAll() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	drained := make([]T, 0, len(r.items))
	for id, item := range r.items {
		delete(r.items, id)
		drained = append(drained, item)
	}
	return drained
}

// Items returns a snapshot copy of the registry contents. Mutating the
// returned map does not affect the registry.
func (r *Registry[T]) Items() map[string]T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]T, len(r.items))
	for id, item := range r.items {
		snapshot[id] = item
	}
	return snapshot
}

// Len returns the number of stored items.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
