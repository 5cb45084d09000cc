package memstore

// Package memstore provides an in-memory session store used in dev mode and
// in tests. It honors the same contract as the Redis adapter, including the
// self-healing treatment of partial records.

import (
	"context"
	"errors"
	"sync"
	"time"

	domainauth "github.com/days/lms-ui-api/internal/domain/auth"
)

// ErrNotFound is returned when a session is not found.
var ErrNotFound = errors.New("session not found")

// SessionStore keeps sessions in a map guarded by a mutex. Whole-record
// replace or delete only; no field-level mutation.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domainauth.Session
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domainauth.Session)}
}

func (s *SessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	if !sess.Complete() {
		return errors.New("session record is incomplete")
	}
	if sess.Expired(time.Now()) {
		return errors.New("session is expired")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domainauth.Session{}, ErrNotFound
	}
	if !sess.Complete() || sess.Expired(time.Now()) {
		delete(s.sessions, id)
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	if id == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len reports the number of stored sessions. Test helper.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
