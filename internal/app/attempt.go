package app

import (
	"context"
	"sync"

	"campfind/internal/domain"
)

// Attempt is one SUBMITTING -> CONFIRMED|FAILED run. Done is closed on resolution.
type Attempt struct {
	id         string
	identityID string
	draft      domain.Draft
	done       chan struct{}

	mu      sync.RWMutex
	state   domain.BookingState
	booking domain.Booking
	err     error
}

// AttemptView is the read model of an attempt.
type AttemptView struct {
	ID      string              `json:"id"`
	State   domain.BookingState `json:"state"`
	Draft   domain.Draft        `json:"draft"`
	Booking *domain.Booking     `json:"booking,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func (a *Attempt) ID() string            { return a.id }
func (a *Attempt) IdentityID() string    { return a.identityID }
func (a *Attempt) Draft() domain.Draft   { return a.draft }
func (a *Attempt) Done() <-chan struct{} { return a.done }

func (a *Attempt) State() domain.BookingState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Wait blocks until the attempt resolves or ctx ends. A ctx that ends first does not stop the attempt.
func (a *Attempt) Wait(ctx context.Context) (domain.Booking, error) {
	select {
	case <-a.done:
	case <-ctx.Done():
		return domain.Booking{}, ctx.Err()
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.booking, a.err
}

func (a *Attempt) View() AttemptView {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v := AttemptView{ID: a.id, State: a.state, Draft: a.draft}
	if a.state == domain.StateConfirmed {
		b := a.booking
		v.Booking = &b
	}
	if a.err != nil {
		v.Error = a.err.Error()
	}
	return v
}

func (a *Attempt) finish(state domain.BookingState, b domain.Booking, err error) {
	a.mu.Lock()
	a.state, a.booking, a.err = state, b, err
	a.mu.Unlock()
	close(a.done)
}
