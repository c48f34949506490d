package listing

import (
	"sync"

	"atrium/internal/authclient"
)

// Snapshot is the shared user listing. Writers replace the whole slice;
// readers project copies. The zero value is empty and unloaded.
type Snapshot struct {
	mu     sync.RWMutex
	users  []authclient.User
	loaded bool
}

// Swap replaces the snapshot atomically.
func (s *Snapshot) Swap(users []authclient.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.loaded = true
}

// Loaded reports whether at least one refresh has completed.
func (s *Snapshot) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Project applies a query to the current snapshot.
func (s *Snapshot) Project(q Query) Page {
	s.mu.RLock()
	users := s.users
	s.mu.RUnlock()
	return Project(users, q)
}

// Find returns the snapshot row with the given id.
func (s *Snapshot) Find(id string) (authclient.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return authclient.User{}, false
}
