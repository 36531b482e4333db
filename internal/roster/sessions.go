package roster

import (
	"sync"

	"talentbase-backend/internal/auth"

	"github.com/google/uuid"
)

// AdminChecker decides whether a user may mutate the roster
type AdminChecker interface {
	IsAdmin(user *auth.User) bool
}

// Subscriber delivers authentication change notifications
type Subscriber interface {
	Subscribe(listener auth.Listener) func()
}

// Sessions maps signed-in users to their consoles
type Sessions struct {
	store    *Store
	records  Persistence
	uploader Uploader
	admins   AdminChecker

	mu       sync.Mutex
	consoles map[uuid.UUID]*Console
}

// NewSessions creates an empty registry. Every console shares store.
func NewSessions(store *Store, records Persistence, uploader Uploader, admins AdminChecker) *Sessions {
	return &Sessions{
		store:    store,
		records:  records,
		uploader: uploader,
		admins:   admins,
		consoles: make(map[uuid.UUID]*Console),
	}
}

// Get returns the console of user, creating it on first use
func (s *Sessions) Get(user *auth.User) *Console {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.consoles[user.ID]; ok {
		return c
	}
	c := NewConsole(s.store, s.records, s.uploader, Viewer{
		Email: user.Email,
		Admin: s.admins.IsAdmin(user),
	})
	s.consoles[user.ID] = c
	return c
}

// Drop discards the console of user id
func (s *Sessions) Drop(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.consoles, id)
}

// Len returns the number of open consoles
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.consoles)
}

// HandleAuthEvent drops a console when its user signs out
func (s *Sessions) HandleAuthEvent(event auth.ChangeEvent) {
	if event.Type == auth.EventSignedOut {
		s.Drop(event.User.ID)
	}
}

// Attach subscribes the registry to sub and returns the unsubscribe func
func (s *Sessions) Attach(sub Subscriber) func() {
	return sub.Subscribe(s.HandleAuthEvent)
}
