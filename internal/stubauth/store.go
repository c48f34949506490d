package stubauth

import (
	"strings"
	"sync"

	dErrors "atrium/pkg/domain-errors"
)

// ErrNotFound is returned when a record cannot be located.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "record not found")

// InMemoryAccountStore stores accounts in memory.
type InMemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	emailIdx map[string]string
	order    []string
}

func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		accounts: make(map[string]*Account),
		emailIdx: make(map[string]string),
	}
}

func (s *InMemoryAccountStore) Create(a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(a.Email)
	if _, exists := s.emailIdx[key]; exists {
		return dErrors.New(dErrors.CodeConflict, "email already registered")
	}
	s.accounts[a.ID] = a
	s.emailIdx[key] = a.ID
	s.order = append(s.order, a.ID)
	return nil
}

func (s *InMemoryAccountStore) FindByID(id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.accounts[id]; ok {
		copy := *a
		return &copy, nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryAccountStore) FindByEmail(email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.emailIdx[strings.ToLower(email)]; ok {
		copy := *s.accounts[id]
		return &copy, nil
	}
	return nil, ErrNotFound
}

// Update applies fn to the stored account under the write lock.
func (s *InMemoryAccountStore) Update(id string, fn func(*Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	oldEmail := strings.ToLower(a.Email)
	fn(a)
	newEmail := strings.ToLower(a.Email)
	if oldEmail != newEmail {
		delete(s.emailIdx, oldEmail)
		s.emailIdx[newEmail] = id
	}
	return nil
}

func (s *InMemoryAccountStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.emailIdx, strings.ToLower(a.Email))
	delete(s.accounts, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns accounts in insertion order.
func (s *InMemoryAccountStore) List(limit, offset int) ([]*Account, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.order)
	if offset < 0 || offset >= total {
		return nil, total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]*Account, 0, end-offset)
	for _, id := range s.order[offset:end] {
		copy := *s.accounts[id]
		out = append(out, &copy)
	}
	return out, total
}

// InMemorySessionStore stores sessions keyed by token.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]*Session)}
}

func (s *InMemorySessionStore) Create(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
}

func (s *InMemorySessionStore) FindByToken(token string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[token]; ok {
		copy := *sess
		return &copy, nil
	}
	return nil, ErrNotFound
}

func (s *InMemorySessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// DeleteByUser removes every session the user holds and reports how many.
func (s *InMemorySessionStore) DeleteByUser(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for token, sess := range s.sessions {
		if sess.UserID == userID {
			delete(s.sessions, token)
			n++
		}
	}
	return n
}

// ListByUser returns the user's sessions.
func (s *InMemorySessionStore) ListByUser(userID string) []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Session
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			copy := *sess
			out = append(out, &copy)
		}
	}
	return out
}
