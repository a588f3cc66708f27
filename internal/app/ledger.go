package app

import (
	"sync"

	"campfind/internal/domain"
)

// Ledger is the append-only, per-identity history of confirmed bookings.
type Ledger struct {
	mu    sync.Mutex
	books map[string]*bookingList
}

type bookingList struct {
	mu    sync.RWMutex
	items []domain.Booking
}

func NewLedger() *Ledger { return &Ledger{books: map[string]*bookingList{}} }

func (l *Ledger) list(identityID string, create bool) *bookingList {
	l.mu.Lock()
	defer l.mu.Unlock()
	bl, ok := l.books[identityID]
	if !ok && create {
		bl = &bookingList{}
		l.books[identityID] = bl
	}
	return bl
}

func (l *Ledger) Append(identityID string, b domain.Booking) {
	bl := l.list(identityID, true)
	bl.mu.Lock()
	bl.items = append(bl.items, b)
	bl.mu.Unlock()
}

// List returns bookings in confirmation order. Unknown or empty identity yields an empty slice.
func (l *Ledger) List(identityID string) []domain.Booking {
	if identityID == "" {
		return []domain.Booking{}
	}
	bl := l.list(identityID, false)
	if bl == nil {
		return []domain.Booking{}
	}
	bl.mu.RLock()
	defer bl.mu.RUnlock()
	out := make([]domain.Booking, len(bl.items))
	copy(out, bl.items)
	return out
}
