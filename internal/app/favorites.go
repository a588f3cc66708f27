package app

import (
	"sync"

	"campfind/internal/domain"
)

// IdentitySource yields the active identity, if any.
type IdentitySource interface {
	Current() (domain.Identity, bool)
}

// Favorites keeps one favorite set per identity. Every operation acts on the caller's
// active identity and is a no-op when there is none.
type Favorites struct {
	mu   sync.Mutex
	sets map[string]*favoriteSet
}

type favoriteSet struct {
	mu    sync.Mutex
	camps []domain.Camp
}

func NewFavorites() *Favorites { return &Favorites{sets: map[string]*favoriteSet{}} }

// set returns the identity's set, creating it on first access.
func (f *Favorites) set(src IdentitySource) *favoriteSet {
	id, ok := src.Current()
	if !ok {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	fs, ok := f.sets[id.ID]
	if !ok {
		fs = &favoriteSet{}
		f.sets[id.ID] = fs
	}
	return fs
}

func (f *Favorites) Add(src IdentitySource, c domain.Camp) {
	fs := f.set(src)
	if fs == nil {
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.add(c)
}

func (f *Favorites) Remove(src IdentitySource, campID string) {
	fs := f.set(src)
	if fs == nil {
		return
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.remove(campID)
}

func (f *Favorites) Contains(src IdentitySource, campID string) bool {
	fs := f.set(src)
	if fs == nil {
		return false
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.index(campID) >= 0
}

// Toggle flips the favorite state of c under one lock and reports the new state.
func (f *Favorites) Toggle(src IdentitySource, c domain.Camp) bool {
	fs := f.set(src)
	if fs == nil {
		return false
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.index(c.ID) >= 0 {
		fs.remove(c.ID)
		return false
	}
	fs.add(c)
	return true
}

// List returns a copy of the active identity's favorites; empty when anonymous.
func (f *Favorites) List(src IdentitySource) []domain.Camp {
	fs := f.set(src)
	if fs == nil {
		return []domain.Camp{}
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]domain.Camp, len(fs.camps))
	copy(out, fs.camps)
	return out
}

func (fs *favoriteSet) index(campID string) int {
	for i, c := range fs.camps {
		if c.ID == campID {
			return i
		}
	}
	return -1
}

func (fs *favoriteSet) add(c domain.Camp) {
	if fs.index(c.ID) >= 0 {
		return
	}
	fs.camps = append(fs.camps, c)
}

func (fs *favoriteSet) remove(campID string) {
	if i := fs.index(campID); i >= 0 {
		fs.camps = append(fs.camps[:i], fs.camps[i+1:]...)
	}
}
