package store

import "sync"

// Resource binds a single key to its own lock so that read-modify-write
// cycles on it cannot interleave.
type Resource[T any] struct {
	mu     sync.RWMutex
	store  *Store
	key    string
	loaded bool
	value  T
}

// NewResource creates a locked resource for key
func NewResource[T any](s *Store, key string) *Resource[T] {
	return &Resource[T]{store: s, key: key}
}

// View calls fn with the current value under the read lock. The value is
// served from memory once it has been read or written; fn must not mutate it.
func (r *Resource[T]) View(fn func(T) error) error {
	r.mu.RLock()
	if r.loaded {
		defer r.mu.RUnlock()
		return fn(r.value)
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		v, err := Read[T](r.store, r.key)
		if err != nil {
			return err
		}
		r.value, r.loaded = v, true
	}
	return fn(r.value)
}

// Update reads the value from disk, lets fn modify it and writes it back,
// all under the write lock. Nothing is written if fn returns an error.
func (r *Resource[T]) Update(fn func(*T) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, err := Read[T](r.store, r.key)
	if err != nil {
		return err
	}
	if err := fn(&v); err != nil {
		return err
	}
	if err := Write(r.store, r.key, v); err != nil {
		return err
	}

	r.value, r.loaded = v, true
	return nil
}
