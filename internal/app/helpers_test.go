package app_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"campfind/internal/app"
	"campfind/internal/domain"
)

// ---- fakes ----

type who struct{ id *domain.Identity }

func (w who) Current() (domain.Identity, bool) {
	if w.id == nil {
		return domain.Identity{}, false
	}
	return *w.id, true
}

func as(id, name string) who { return who{id: &domain.Identity{ID: id, Username: name}} }

var anonymous = who{}

type fakeGateway struct {
	mu    sync.Mutex
	calls int
	err   error
	block chan struct{}
}

func (g *fakeGateway) Charge(ctx context.Context, c domain.Charge) error {
	g.mu.Lock()
	g.calls++
	block, err := g.block, g.err
	g.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (g *fakeGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type recorder struct {
	mu  sync.Mutex
	got []domain.Notification
}

func (r *recorder) Notify(ctx context.Context, n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.got))
	for _, n := range r.got {
		out = append(out, n.Title)
	}
	return out
}

type fakeRooms struct {
	camps map[string]domain.Camp
	rooms map[string]domain.Room
}

func (f *fakeRooms) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	r, ok := f.rooms[id]
	if !ok {
		return domain.Room{}, domain.NotFound("room")
	}
	return r, nil
}

func (f *fakeRooms) GetCamp(ctx context.Context, id string) (domain.Camp, error) {
	c, ok := f.camps[id]
	if !ok {
		return domain.Camp{}, domain.NotFound("camp")
	}
	return c, nil
}

// ---- fixtures ----

var (
	mountainCamp = domain.Camp{ID: "1", Name: "山景露營區", Location: "新竹縣", Price: 1200}
	deluxeTent   = domain.Room{ID: "r1", CampID: "1", Name: "山景豪華帳", Price: 1200, Available: true}
	fullCabin    = domain.Room{ID: "r2", CampID: "1", Name: "雲海小木屋", Price: 2800, Available: false}
)

func newRooms() *fakeRooms {
	return &fakeRooms{
		camps: map[string]domain.Camp{mountainCamp.ID: mountainCamp},
		rooms: map[string]domain.Room{deluxeTent.ID: deluxeTent, fullCabin.ID: fullCabin},
	}
}

func newDirectory() *app.Directory {
	return app.NewDirectory(app.WithHashCost(bcrypt.MinCost))
}

// loggedIn registers username/pw and returns a session logged in as that user.
func loggedIn(t *testing.T, dir *app.Directory, username string) *app.Session {
	t.Helper()
	ctx := context.Background()
	_, err := dir.Register(ctx, app.RegisterInput{Username: username, Password: "pw1", ConfirmPassword: "pw1"})
	require.NoError(t, err)
	s := app.NewSession(dir)
	_, err = s.Login(ctx, username, "pw1")
	require.NoError(t, err)
	return s
}

func validInput() domain.DraftInput {
	return domain.DraftInput{
		RoomID:   "r1",
		Account:  "alice",
		Name:     "王小明",
		Phone:    "0912345678",
		CheckIn:  "2024-06-15",
		CheckOut: "2024-06-17",
	}
}
