// Package views holds the screens of the client. Each view owns its fetch
// triggers (page, filter, route id and so on), keeps the last successful
// response in a Resource and renders it as text. Mutations issue one write
// and then re-read; nothing is updated locally ahead of the backend.
package views

import (
	"context"
	"sync"
)

// StaleRecorder counts responses a Resource threw away.
type StaleRecorder interface {
	RecordStale(view string)
}

// Resource holds the last applied response of one backend read. Every Load
// takes a sequence number; a response that completes after a newer one has
// been applied is dropped, so the view always shows the latest request's
// answer whatever order the responses arrive in.
type Resource[T any] struct {
	name  string
	stale StaleRecorder

	mu      sync.Mutex
	issued  uint64
	applied uint64
	value   T
	loaded  bool
}

// NewResource returns an empty resource. name labels stale drops in stale.
func NewResource[T any](name string, stale StaleRecorder) *Resource[T] {
	return &Resource[T]{name: name, stale: stale}
}

// Load runs fetch and applies its result unless it is stale. A failed fetch
// leaves the previous value in place and returns the error.
func (r *Resource[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) error {
	r.mu.Lock()
	r.issued++
	seq := r.issued
	r.mu.Unlock()

	v, err := fetch(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq < r.applied {
		if r.stale != nil {
			r.stale.RecordStale(r.name)
		}
		return nil
	}
	r.applied = seq
	r.value = v
	r.loaded = true
	return nil
}

// Get returns the current value and whether anything was loaded yet.
func (r *Resource[T]) Get() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value, r.loaded
}
