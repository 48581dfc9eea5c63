// Package session owns the client's cached view of whether the user holds a
// valid server credential, and the guard that gates protected pages on it.
//
// The Store is created once at startup and handed to every component that
// reads or writes it. Nothing in the client reaches it through a global.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/dmitrijs2005/zamazon/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/zamazon/internal/logging"
)

// StorageKey is the single metadata key the flag is persisted under.
const StorageKey = "isAuthenticated"

// Store holds the authentication flag. Writers are the verifier, a
// successful login and logout; everything else only reads.
type Store struct {
	repo   metadata.Repository
	logger logging.Logger

	// writeMu orders whole writes: memory, disk and notifications.
	writeMu sync.Mutex

	mu            sync.RWMutex
	authenticated bool

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(bool)
}

// Load builds a Store from the persisted value. A missing, unreadable or
// unparsable value yields false.
func Load(ctx context.Context, repo metadata.Repository, logger logging.Logger) *Store {
	s := &Store{
		repo:   repo,
		logger: logger,
		subs:   make(map[int]func(bool)),
	}

	raw, err := repo.Get(ctx, StorageKey)
	if err != nil {
		logger.Warn(ctx, "session: read persisted flag", "error", err)
		return s
	}
	if raw == nil {
		return s
	}

	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn(ctx, "session: persisted flag is not a boolean", "value", string(raw))
		return s
	}
	s.authenticated = v

	return s
}

// Read returns the cached flag. It never touches storage.
func (s *Store) Read() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Write sets the flag, persists it and notifies subscribers before
// returning. Persistence is best effort: a storage error is logged only.
// Concurrent writes are applied one at a time, so the last write to return
// is the value in memory, on disk and last seen by subscribers.
func (s *Store) Write(ctx context.Context, status bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	changed := s.authenticated != status
	s.authenticated = status
	s.mu.Unlock()

	raw, _ := json.Marshal(status)
	if err := s.repo.Set(ctx, StorageKey, raw); err != nil {
		s.logger.Error(ctx, "session: persist flag", "error", err)
	}

	if changed {
		s.logger.Info(ctx, "session changed", "authenticated", status)
	}

	for _, fn := range s.subscribers() {
		fn(status)
	}
}

// Subscribe registers fn to be called with the new value on every Write.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(bool)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) subscribers() []func(bool) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	out := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}
