package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions is the registry of live wizard machines, keyed by session ID.
// Only the registry itself is mutex-guarded; each Machine is single-owner —
// one booking client drives one session, as one browser tab drives one form.
type Sessions struct {
	mu          sync.Mutex
	machines    map[string]*Machine
	afterSubmit time.Duration
}

// NewSessions returns an empty registry. afterSubmit is how long a submitted
// session lingers before it is reaped (the form's auto-close delay).
func NewSessions(afterSubmit time.Duration) *Sessions {
	return &Sessions{
		machines:    make(map[string]*Machine),
		afterSubmit: afterSubmit,
	}
}

// Start creates a new session wired to the given poster and returns its ID
// and machine.
func (s *Sessions) Start(poster Poster) (string, *Machine) {
	id := uuid.NewString()
	m := New(poster)
	s.mu.Lock()
	s.machines[id] = m
	s.mu.Unlock()
	return id, m
}

// Get returns the machine for a session ID, or false if it does not exist
// (never created, closed, or already reaped).
func (s *Sessions) Get(id string) (*Machine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.machines[id]
	return m, ok
}

// Close discards a session immediately, dropping its draft.
func (s *Sessions) Close(id string) {
	s.mu.Lock()
	delete(s.machines, id)
	s.mu.Unlock()
}

// ReapAfterSubmit schedules removal of a submitted session after the
// configured auto-close delay.
func (s *Sessions) ReapAfterSubmit(id string) {
	time.AfterFunc(s.afterSubmit, func() { s.Close(id) })
}
