// Package session owns the process-wide credential: a bearer token kept in
// the durable metadata store, and the Authorization header derived from it.
//
// A Store built without storage models a host that has no persistent
// key/value store: every operation is a silent no-op and the client stays
// anonymous.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/agentdesk/internal/logging"
)

// TokenKey is the fixed storage key of the credential.
const TokenKey = "agent-auth-token"

var ErrEmptyToken = errors.New("empty token")

// Storage is the subset of metadata.Repository the Store needs.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// TokenSource is the read side of Store.
type TokenSource interface {
	Get(ctx context.Context) (string, bool)
}

type Store struct {
	mu      sync.Mutex
	storage Storage
	log     logging.Logger
}

func NewStore(storage Storage, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{storage: storage, log: log.With("component", "session")}
}

// Persistent reports whether the store has durable storage behind it.
func (s *Store) Persistent() bool {
	return s.storage != nil
}

// Save replaces the current credential.
func (s *Store) Save(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if s.storage == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Set(ctx, TokenKey, []byte(token))
}

// Get returns the credential and true, or "" and false when anonymous.
// Storage failures are logged and reported as anonymous.
func (s *Store) Get(ctx context.Context) (string, bool) {
	if s.storage == nil {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.storage.Get(ctx, TokenKey)
	if err != nil {
		s.log.Warn(ctx, "credential read failed", "error", err)
		return "", false
	}
	if len(v) == 0 {
		return "", false
	}
	return string(v), true
}

// Clear removes the credential. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Delete(ctx, TokenKey)
}
