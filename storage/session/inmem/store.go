// Package inmem keeps sessions in process memory. Sessions are lost on restart.
package inmem

import (
	"context"
	"sync"

	"github.com/trezcool/masomo-portal/core/session"
)

type Store struct {
	mutex sync.RWMutex
	table map[string]session.Session
}

var _ session.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{table: make(map[string]session.Session)}
}

func (s *Store) Save(_ context.Context, sess session.Session) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.table[sess.ID] = sess
	return nil
}

func (s *Store) Get(_ context.Context, id string) (session.Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	sess, ok := s.table[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.table[id]; !ok {
		return session.ErrNotFound
	}
	delete(s.table, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.table)
}
