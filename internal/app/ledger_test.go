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

func TestLedger_UnknownOrEmptyIdentity(t *testing.T) {
	l := app.NewLedger()
	assert.NotNil(t, l.List(""))
	assert.Empty(t, l.List(""))
	assert.Empty(t, l.List("ghost"))
}

func TestLedger_KeepsOrderPerIdentity(t *testing.T) {
	l := app.NewLedger()
	l.Append("a", domain.Booking{ID: "1"})
	l.Append("b", domain.Booking{ID: "x"})
	l.Append("a", domain.Booking{ID: "2"})

	got := l.List("a")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
	assert.Len(t, l.List("b"), 1)
}

func TestLedger_ListIsACopy(t *testing.T) {
	l := app.NewLedger()
	l.Append("a", domain.Booking{ID: "1"})
	got := l.List("a")
	got[0].ID = "mutated"
	assert.Equal(t, "1", l.List("a")[0].ID)
}

func TestLedger_ConcurrentAppendsAreAllRecorded(t *testing.T) {
	l := app.NewLedger()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Append("a", domain.Booking{ID: fmt.Sprint(i)})
		}(i)
	}
	wg.Wait()
	assert.Len(t, l.List("a"), 100)
}

func TestSeedDemo(t *testing.T) {
	dir, l := newDirectory(), app.NewLedger()
	require.NoError(t, app.SeedDemo(dir, l))
	require.NoError(t, app.SeedDemo(dir, l))

	got := l.List(app.DemoIdentity.ID)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2400), got[0].TotalPrice)
	assert.Equal(t, 2, got[0].Nights)

	s := app.NewSession(dir)
	id, err := s.Login(t.Context(), "testuser", "password123")
	require.NoError(t, err)
	assert.Equal(t, "1", id.ID)
}
