package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"campfind/internal/app"
	"campfind/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	camps []domain.Camp
	rooms []domain.Room
	loads int
}

func (f *fakeRepo) ListCamps(ctx context.Context) ([]domain.Camp, error) {
	f.loads++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.camps, nil
}

func (f *fakeRepo) GetCamp(ctx context.Context, id string) (domain.Camp, error) {
	f.loads++
	if err := ctx.Err(); err != nil {
		return domain.Camp{}, err
	}
	for _, c := range f.camps {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Camp{}, domain.NotFound("camp")
}

func (f *fakeRepo) ListRooms(ctx context.Context, campID string) ([]domain.Room, error) {
	f.loads++
	var out []domain.Room
	for _, r := range f.rooms {
		if r.CampID == campID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	f.loads++
	for _, r := range f.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Room{}, domain.NotFound("room")
}

type fakeCache struct {
	store  map[string]any
	setErr error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Camp:
		*d = v.(domain.Camp)
	case *[]domain.Camp:
		*d = append([]domain.Camp(nil), v.([]domain.Camp)...)
	case *domain.Room:
		*d = v.(domain.Room)
	case *[]domain.Room:
		*d = append([]domain.Room(nil), v.([]domain.Room)...)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.setErr != nil {
		return c.setErr
	}
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error { return nil }

func catalogRepo() *fakeRepo {
	return &fakeRepo{
		camps: []domain.Camp{
			{ID: "1", Name: "山景露營區", Location: "新竹縣", Description: "Mountain views"},
			{ID: "2", Name: "海岸營地", Location: "台東縣", Description: "Beach side, ocean sunrise"},
			{ID: "3", Name: "森林秘境", Location: "南投縣", Description: "Deep in the FOREST"},
		},
		rooms: []domain.Room{
			{ID: "r1", CampID: "1", Name: "山景豪華帳", Price: 1200, Available: true},
			{ID: "r3", CampID: "2", Name: "海景帳", Price: 1500, Available: true},
		},
	}
}

// ---- tests ----

func TestGetCamp_CacheMissThenHit(t *testing.T) {
	repo := catalogRepo()
	q := app.NewQueryService(repo, &fakeCache{}, 10*time.Minute)

	c, err := q.GetCamp(context.Background(), "1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if c.Name != "山景露營區" {
		t.Fatalf("unexpected camp: %+v", c)
	}

	// second read must come from cache
	repo.camps[0].Name = "SHOULD NOT SEE THIS"
	c2, err := q.GetCamp(context.Background(), "1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if c2.Name != "山景露營區" {
		t.Fatalf("expected cached name, got %s", c2.Name)
	}
}

func TestListCamps_Search(t *testing.T) {
	q := app.NewQueryService(catalogRepo(), &fakeCache{}, time.Minute)

	cases := map[string][]string{
		"":         {"1", "2", "3"},
		"  ":       {"1", "2", "3"},
		"山景":       {"1"},
		"台東":       {"2"},
		"forest":   {"3"},
		"OCEAN":    {"2"},
		"nowhere":  {},
		" sunrise": {"2"},
	}
	for term, want := range cases {
		got, err := q.ListCamps(context.Background(), domain.CampsQuery{Q: term})
		if err != nil {
			t.Fatalf("%q: err: %v", term, err)
		}
		if len(got) != len(want) {
			t.Fatalf("%q: got %d camps, want %d", term, len(got), len(want))
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Fatalf("%q: got %s at %d, want %s", term, got[i].ID, i, want[i])
			}
		}
	}
}

func TestListCamps_LoadsOnce(t *testing.T) {
	repo := catalogRepo()
	q := app.NewQueryService(repo, &fakeCache{}, time.Minute)
	for i := 0; i < 3; i++ {
		if _, err := q.ListCamps(context.Background(), domain.CampsQuery{Q: "山"}); err != nil {
			t.Fatalf("err: %v", err)
		}
	}
	if repo.loads != 1 {
		t.Fatalf("expected 1 repo load, got %d", repo.loads)
	}
}

func TestQueryService_NilCache(t *testing.T) {
	repo := catalogRepo()
	q := app.NewQueryService(repo, nil, time.Minute)
	if _, err := q.GetRoom(context.Background(), "r1"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if _, err := q.GetRoom(context.Background(), "r1"); err != nil {
		t.Fatalf("err: %v", err)
	}
	if repo.loads != 2 {
		t.Fatalf("expected every read to hit the repo, got %d loads", repo.loads)
	}
}

func TestListRooms(t *testing.T) {
	q := app.NewQueryService(catalogRepo(), &fakeCache{}, time.Minute)

	rooms, err := q.ListRooms(context.Background(), "1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != "r1" {
		t.Fatalf("unexpected rooms: %+v", rooms)
	}

	rooms, err = q.ListRooms(context.Background(), "3")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if rooms == nil || len(rooms) != 0 {
		t.Fatalf("expected empty non-nil rooms, got %#v", rooms)
	}

	if _, err := q.ListRooms(context.Background(), "404"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetRoom_NotFound(t *testing.T) {
	q := app.NewQueryService(catalogRepo(), &fakeCache{}, time.Minute)
	if _, err := q.GetRoom(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListCamps_LoadSurvivesCallerCancel(t *testing.T) {
	repo := catalogRepo()
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := q.ListCamps(ctx, domain.CampsQuery{})
	if err != nil {
		t.Fatalf("load should not see the caller's cancellation, got %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 camps, got %d", len(got))
	}
	if _, ok := cache.store["camps:all"]; !ok {
		t.Fatalf("expected the shared load to populate the cache")
	}
}

func TestGetCamp_CacheSetFailureStillServes(t *testing.T) {
	repo := catalogRepo()
	q := app.NewQueryService(repo, &fakeCache{setErr: errors.New("redis down")}, time.Minute)

	for i := 0; i < 2; i++ {
		c, err := q.GetCamp(context.Background(), "2")
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if c.ID != "2" {
			t.Fatalf("unexpected camp: %+v", c)
		}
	}
	if repo.loads != 2 {
		t.Fatalf("expected a repo load per read when the cache rejects writes, got %d", repo.loads)
	}
}
