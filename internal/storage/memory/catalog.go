package memory

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"campfind/internal/app"
	"campfind/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// DefaultCatalog returns the bundled demo catalog.
func DefaultCatalog() (domain.Catalog, error) { return ParseCatalog(defaultCatalog) }

// ParseCatalog decodes a YAML catalog and normalizes it.
func ParseCatalog(b []byte) (domain.Catalog, error) {
	var c domain.Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	return app.NormalizeCatalog(c)
}

// Catalog is an in-process reference data provider.
type Catalog struct {
	mu    sync.RWMutex
	camps map[string]domain.Camp
	order []string
	rooms map[string]domain.Room
}

func New(c domain.Catalog) *Catalog {
	s := &Catalog{camps: map[string]domain.Camp{}, rooms: map[string]domain.Room{}}
	for _, cp := range c.Camps {
		_ = s.UpsertCamp(context.Background(), cp)
	}
	for _, r := range c.Rooms {
		_ = s.UpsertRoom(context.Background(), r)
	}
	return s
}

func (s *Catalog) ListCamps(ctx context.Context) ([]domain.Camp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Camp, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.camps[id])
	}
	return out, nil
}

func (s *Catalog) GetCamp(ctx context.Context, id string) (domain.Camp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.camps[id]
	if !ok {
		return domain.Camp{}, domain.NotFound("camp")
	}
	return c, nil
}

func (s *Catalog) ListRooms(ctx context.Context, campID string) ([]domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Room{}
	for _, r := range s.rooms {
		if r.CampID == campID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Catalog) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, domain.NotFound("room")
	}
	return r, nil
}

func (s *Catalog) UpsertCamp(ctx context.Context, c domain.Camp) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.camps[c.ID]; !ok {
		s.order = append(s.order, c.ID)
	}
	s.camps[c.ID] = c
	return nil
}

func (s *Catalog) UpsertRoom(ctx context.Context, r domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID] = r
	return nil
}
