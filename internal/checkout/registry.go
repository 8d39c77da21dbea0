package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"petshop/m/internal/catalog"
)

// Registry keeps one session per signed-in employee.
type Registry struct {
	loader   *catalog.Loader
	recorder Recorder

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry(loader *catalog.Loader, recorder Recorder) *Registry {
	return &Registry{
		loader:   loader,
		recorder: recorder,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Session returns the employee's session, opening it on first use. The
// catalog load happens outside the registry lock; when two first requests
// race, the session stored first wins.
func (r *Registry) Session(ctx context.Context, employeeID uuid.UUID) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[employeeID]
	r.mu.Unlock()
	if ok {
		return s, nil
	}

	opened, err := Open(ctx, r.loader, r.recorder)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[employeeID]; ok {
		return s, nil
	}
	r.sessions[employeeID] = opened
	return opened, nil
}

// Discard forgets the employee's session and its cart.
func (r *Registry) Discard(employeeID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, employeeID)
}
