package app_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campfind/internal/app"
	"campfind/internal/domain"
)

func camp(id string) domain.Camp { return domain.Camp{ID: id, Name: "camp " + id} }

func TestFavorites_AnonymousIsNoop(t *testing.T) {
	f := app.NewFavorites()
	f.Add(anonymous, camp("1"))
	f.Remove(anonymous, "1")
	assert.False(t, f.Toggle(anonymous, camp("1")))
	assert.False(t, f.Contains(anonymous, "1"))
	assert.Empty(t, f.List(anonymous))
	assert.NotNil(t, f.List(anonymous))
}

func TestFavorites_AddIsIdempotent(t *testing.T) {
	f := app.NewFavorites()
	alice := as("a", "alice")
	f.Add(alice, camp("1"))
	f.Add(alice, camp("1"))
	require.Len(t, f.List(alice), 1)
	assert.True(t, f.Contains(alice, "1"))
}

func TestFavorites_ToggleIsItsOwnInverse(t *testing.T) {
	f := app.NewFavorites()
	alice := as("a", "alice")
	f.Add(alice, camp("2"))
	before := f.List(alice)

	assert.True(t, f.Toggle(alice, camp("1")))
	assert.True(t, f.Contains(alice, "1"))
	assert.False(t, f.Toggle(alice, camp("1")))
	assert.Equal(t, before, f.List(alice))

	// and the other way round
	assert.False(t, f.Toggle(alice, camp("2")))
	assert.True(t, f.Toggle(alice, camp("2")))
	assert.True(t, f.Contains(alice, "2"))
}

func TestFavorites_RemoveMissingIsNoop(t *testing.T) {
	f := app.NewFavorites()
	alice := as("a", "alice")
	f.Add(alice, camp("1"))
	f.Remove(alice, "nope")
	assert.Len(t, f.List(alice), 1)
}

func TestFavorites_IdentitiesAreIsolated(t *testing.T) {
	f := app.NewFavorites()
	alice, bob := as("a", "alice"), as("b", "bob")
	f.Add(alice, camp("1"))
	f.Add(alice, camp("3"))
	f.Add(bob, camp("2"))

	assert.Equal(t, []domain.Camp{camp("1"), camp("3")}, f.List(alice))
	assert.Equal(t, []domain.Camp{camp("2")}, f.List(bob))
	assert.False(t, f.Contains(bob, "1"))

	f.Remove(bob, "1")
	assert.True(t, f.Contains(alice, "1"))
}

func TestFavorites_SurvivesLogoutAndLogin(t *testing.T) {
	dir := newDirectory()
	s := loggedIn(t, dir, "alice")
	f := app.NewFavorites()
	f.Add(s, camp("1"))

	s.Logout()
	assert.Empty(t, f.List(s))

	_, err := s.Login(t.Context(), "alice", "pw1")
	require.NoError(t, err)
	assert.True(t, f.Contains(s, "1"))
}

func TestFavorites_ListIsACopy(t *testing.T) {
	f := app.NewFavorites()
	alice := as("a", "alice")
	f.Add(alice, camp("1"))
	got := f.List(alice)
	got[0].Name = "changed"
	assert.Equal(t, "camp 1", f.List(alice)[0].Name)
}

func TestFavorites_ConcurrentToggles(t *testing.T) {
	f := app.NewFavorites()
	alice := as("a", "alice")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f.Toggle(alice, camp(fmt.Sprint(i%5)))
		}(i)
	}
	wg.Wait()

	// 10 toggles per camp: every camp ends where it started
	assert.Empty(t, f.List(alice))
}
