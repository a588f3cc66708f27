package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"campfind/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate creates the catalog tables if they are missing.
func (r *Repo) Migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (r *Repo) UpsertCamp(ctx context.Context, c domain.Camp) error {
	amen, _ := json.Marshal(nonNil(c.Amenities))
	_, err := r.db.ExecContext(ctx, upsertCampSQL,
		c.ID, c.Name, c.Description, c.Location, c.Price, c.Image, string(amen), c.Rating)
	return err
}

func (r *Repo) UpsertRoom(ctx context.Context, rm domain.Room) error {
	amen, _ := json.Marshal(nonNil(rm.Amenities))
	_, err := r.db.ExecContext(ctx, upsertRoomSQL,
		rm.ID, rm.CampID, rm.Name, rm.Type, rm.Capacity, rm.Price, string(amen), rm.Available, rm.Image)
	return err
}

func (r *Repo) ListCamps(ctx context.Context) ([]domain.Camp, error) {
	rows, err := r.db.QueryContext(ctx, listCampsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Camp{}
	for rows.Next() {
		c, err := scanCamp(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCamp(ctx context.Context, id string) (domain.Camp, error) {
	c, err := scanCamp(r.db.QueryRowContext(ctx, getCampSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Camp{}, domain.NotFound("camp")
	}
	return c, err
}

func (r *Repo) ListRooms(ctx context.Context, campID string) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, listRoomsSQL, campID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

func (r *Repo) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx, getRoomSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Room{}, domain.NotFound("room")
	}
	return rm, err
}

type scanner interface{ Scan(dest ...any) error }

func scanCamp(s scanner) (domain.Camp, error) {
	var c domain.Camp
	var amenities []byte
	if err := s.Scan(&c.ID, &c.Name, &c.Description, &c.Location, &c.Price, &c.Image, &amenities, &c.Rating); err != nil {
		return domain.Camp{}, err
	}
	_ = json.Unmarshal(amenities, &c.Amenities)
	return c, nil
}

func scanRoom(s scanner) (domain.Room, error) {
	var rm domain.Room
	var amenities []byte
	if err := s.Scan(&rm.ID, &rm.CampID, &rm.Name, &rm.Type, &rm.Capacity, &rm.Price, &amenities, &rm.Available, &rm.Image); err != nil {
		return domain.Room{}, err
	}
	_ = json.Unmarshal(amenities, &rm.Amenities)
	return rm, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
