package app

import (
	"fmt"
	"strings"

	"campfind/internal/domain"
)

// NormalizeCatalog trims text fields, drops blank and duplicate amenities, fills a camp's
// price from its cheapest room when unset, and rejects rooms that point at unknown camps.
func NormalizeCatalog(in domain.Catalog) (domain.Catalog, error) {
	out := domain.Catalog{
		Camps: make([]domain.Camp, 0, len(in.Camps)),
		Rooms: make([]domain.Room, 0, len(in.Rooms)),
	}
	camps := make(map[string]int, len(in.Camps))
	for _, c := range in.Camps {
		c.ID = strings.TrimSpace(c.ID)
		if c.ID == "" {
			return domain.Catalog{}, fmt.Errorf("camp %q: empty id", c.Name)
		}
		if _, dup := camps[c.ID]; dup {
			return domain.Catalog{}, fmt.Errorf("camp %s: duplicate id", c.ID)
		}
		c.Name = strings.TrimSpace(c.Name)
		c.Description = strings.TrimSpace(c.Description)
		c.Location = strings.TrimSpace(c.Location)
		c.Amenities = cleanStrings(c.Amenities)
		camps[c.ID] = len(out.Camps)
		out.Camps = append(out.Camps, c)
	}

	minPrice := map[string]int64{}
	seen := map[string]struct{}{}
	for _, r := range in.Rooms {
		r.ID = strings.TrimSpace(r.ID)
		r.CampID = strings.TrimSpace(r.CampID)
		if r.ID == "" {
			return domain.Catalog{}, fmt.Errorf("room %q: empty id", r.Name)
		}
		if _, dup := seen[r.ID]; dup {
			return domain.Catalog{}, fmt.Errorf("room %s: duplicate id", r.ID)
		}
		if _, ok := camps[r.CampID]; !ok {
			return domain.Catalog{}, fmt.Errorf("room %s: unknown camp %q", r.ID, r.CampID)
		}
		if r.Price <= 0 {
			return domain.Catalog{}, fmt.Errorf("room %s: price must be positive", r.ID)
		}
		seen[r.ID] = struct{}{}
		r.Name = strings.TrimSpace(r.Name)
		r.Type = strings.TrimSpace(r.Type)
		r.Amenities = cleanStrings(r.Amenities)
		if p, ok := minPrice[r.CampID]; !ok || r.Price < p {
			minPrice[r.CampID] = r.Price
		}
		out.Rooms = append(out.Rooms, r)
	}

	for i := range out.Camps {
		if out.Camps[i].Price == 0 {
			out.Camps[i].Price = minPrice[out.Camps[i].ID]
		}
	}
	return out, nil
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		t := strings.TrimSpace(s)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
