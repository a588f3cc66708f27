package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"campfind/internal/domain"
)

// QueryService serves catalog reads through an optional cache.
type QueryService struct {
	repo     domain.CatalogRepository
	cache    domain.Cache
	cacheTTL time.Duration
	sf       singleflight.Group
}

func NewQueryService(r domain.CatalogRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// ListCamps returns all camps, or those whose name, location or description contains q (case-insensitive).
func (s *QueryService) ListCamps(ctx context.Context, q domain.CampsQuery) ([]domain.Camp, error) {
	var all []domain.Camp
	err := s.cached(ctx, "camps:all", &all, func(ctx context.Context) (any, error) {
		cs, err := s.repo.ListCamps(ctx)
		if err != nil {
			return nil, err
		}
		return copyCamps(cs), nil
	})
	if err != nil {
		return nil, err
	}
	return filterCamps(all, q.Q), nil
}

func (s *QueryService) GetCamp(ctx context.Context, id string) (domain.Camp, error) {
	var c domain.Camp
	err := s.cached(ctx, fmt.Sprintf("camp:%s", id), &c, func(ctx context.Context) (any, error) {
		return s.repo.GetCamp(ctx, id)
	})
	return c, err
}

// ListRooms returns the rooms of a camp. An unknown camp is ErrNotFound.
func (s *QueryService) ListRooms(ctx context.Context, campID string) ([]domain.Room, error) {
	if _, err := s.GetCamp(ctx, campID); err != nil {
		return nil, err
	}
	var rooms []domain.Room
	err := s.cached(ctx, fmt.Sprintf("rooms:%s", campID), &rooms, func(ctx context.Context) (any, error) {
		rs, err := s.repo.ListRooms(ctx, campID)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Room, len(rs))
		copy(out, rs)
		return out, nil
	})
	if rooms == nil {
		rooms = []domain.Room{}
	}
	return rooms, err
}

func (s *QueryService) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	var r domain.Room
	err := s.cached(ctx, fmt.Sprintf("room:%s", id), &r, func(ctx context.Context) (any, error) {
		return s.repo.GetRoom(ctx, id)
	})
	return r, err
}

// cached reads key into dst, filling it from load on a miss. Concurrent misses for the
// same key share one load, which outlives the cancellation of whichever caller started it.
func (s *QueryService) cached(ctx context.Context, key string, dst any, load func(context.Context) (any, error)) error {
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, dst); ok {
			return nil
		}
	}
	v, err, _ := s.sf.Do(key, func() (any, error) {
		lctx := context.WithoutCancel(ctx)
		v, err := load(lctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(lctx, key, v, int(s.cacheTTL.Seconds())); err != nil {
				log.Debug().Err(err).Str("key", key).Msg("cache set failed")
			}
		}
		return v, nil
	})
	if err != nil {
		return err
	}
	return assign(dst, v)
}

func assign(dst, v any) error {
	switch d := dst.(type) {
	case *[]domain.Camp:
		*d = copyCamps(v.([]domain.Camp))
	case *domain.Camp:
		*d = v.(domain.Camp)
	case *[]domain.Room:
		rs := v.([]domain.Room)
		*d = make([]domain.Room, len(rs))
		copy(*d, rs)
	case *domain.Room:
		*d = v.(domain.Room)
	default:
		return fmt.Errorf("unsupported cache destination %T", dst)
	}
	return nil
}

func filterCamps(in []domain.Camp, q string) []domain.Camp {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return in
	}
	out := make([]domain.Camp, 0, len(in))
	for _, c := range in {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Location), q) ||
			strings.Contains(strings.ToLower(c.Description), q) {
			out = append(out, c)
		}
	}
	return out
}

// copy slice to avoid aliasing the repo's backing array
func copyCamps(in []domain.Camp) []domain.Camp {
	out := make([]domain.Camp, len(in))
	copy(out, in)
	return out
}
