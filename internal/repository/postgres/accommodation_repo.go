package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fernweh-labs/tripdesk/internal/domain/accommodation"
)

var _ accommodation.Repo = (*AccommodationRepo)(nil)

type AccommodationRepo struct{ db *DB }

func NewAccommodationRepo(db *DB) *AccommodationRepo { return &AccommodationRepo{db: db} }

const (
	qAccomInsert = `
INSERT INTO accommodations (id, country, city, address, name, accommodation_type, room_type, num_rooms, description, facilities, images)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING created_at, updated_at;`

	qAccomByID = `
SELECT id, country, city, address, name, accommodation_type, room_type, num_rooms, description, facilities, images, created_at, updated_at
FROM accommodations
WHERE id = $1;`
)

func (r *AccommodationRepo) Create(ctx context.Context, a *accommodation.Accommodation) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if err := r.db.Pool.QueryRow(ctx, qAccomInsert,
		a.ID, a.Country, a.City, a.Address, a.Name,
		a.AccommodationType, a.RoomType, a.NumRooms,
		a.Description, a.Facilities, a.Images,
	).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("insert accommodation: %w", err)
	}
	return nil
}

func (r *AccommodationRepo) GetByID(ctx context.Context, id string) (*accommodation.Accommodation, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var a accommodation.Accommodation
	if err := r.db.Pool.QueryRow(ctx, qAccomByID, id).Scan(
		&a.ID, &a.Country, &a.City, &a.Address, &a.Name,
		&a.AccommodationType, &a.RoomType, &a.NumRooms,
		&a.Description, &a.Facilities, &a.Images,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get accommodation: %w", err)
	}
	return &a, nil
}
