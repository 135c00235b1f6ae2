package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fernweh-labs/tripdesk/internal/domain/request"
)

var _ request.Repo = (*RequestRepo)(nil)

type RequestRepo struct{ db *DB }

func NewRequestRepo(db *DB) *RequestRepo { return &RequestRepo{db: db} }

const (
	qReqInsert = `
INSERT INTO requests (requester_id, trip_type, origin_city, destination_city, departure_date, reason, accommodation_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, status, created_at, updated_at;`

	qReqByID = `
SELECT id, requester_id, trip_type, origin_city, destination_city, departure_date, reason, accommodation_id, status, created_at, updated_at
FROM requests
WHERE id = $1;`

	qReqByRequester = `
SELECT id, requester_id, trip_type, origin_city, destination_city, departure_date, reason, accommodation_id, status, created_at, updated_at
FROM requests
WHERE requester_id = $1
ORDER BY created_at DESC, id DESC;`

	qReqPendingForManager = `
SELECT r.id, r.requester_id, r.trip_type, r.origin_city, r.destination_city, r.departure_date, r.reason, r.accommodation_id, r.status, r.created_at, r.updated_at
FROM requests r
JOIN users u ON u.id = r.requester_id
WHERE r.status = 'pending' AND u.line_manager_id = $1
ORDER BY r.created_at, r.id;`

	// The status guard makes terminal states final at the row level:
	// a second decision matches zero rows.
	qReqSetStatus = `
UPDATE requests
SET status     = $2,
    updated_at = NOW()
WHERE id = $1 AND status = 'pending'
RETURNING id, requester_id, trip_type, origin_city, destination_city, departure_date, reason, accommodation_id, status, created_at, updated_at;`
)

// Create is transaction-aware so the request row, the manager's
// notification and the outbox event commit together.
func (r *RequestRepo) Create(ctx context.Context, req *request.Request) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)
	if err := eq.QueryRow(ctx, qReqInsert,
		req.RequesterID, req.TripType, req.OriginCity, req.DestinationCity,
		req.DepartureDate, req.Reason, req.AccommodationID,
	).Scan(&req.ID, &req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrConstraint
		}
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id int64) (*request.Request, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var req request.Request
	if err := scanRequest(r.db.Pool.QueryRow(ctx, qReqByID, id), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepo) ListByRequester(ctx context.Context, requesterID int64) ([]*request.Request, error) {
	return r.list(ctx, qReqByRequester, requesterID)
}

func (r *RequestRepo) ListPendingForManager(ctx context.Context, managerID int64) ([]*request.Request, error) {
	return r.list(ctx, qReqPendingForManager, managerID)
}

func (r *RequestRepo) list(ctx context.Context, query string, arg int64) ([]*request.Request, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query requests: %w", err)
	}
	defer rows.Close()

	out := make([]*request.Request, 0)
	for rows.Next() {
		var req request.Request
		if err := scanRequest(rows, &req); err != nil {
			return nil, err
		}
		rc := req
		out = append(out, &rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// SetStatus is transaction-aware; the dispatcher writes the
// requester's notification in the same transaction.
func (r *RequestRepo) SetStatus(ctx context.Context, id int64, status request.Status) (*request.Request, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)
	var req request.Request
	if err := scanRequest(eq.QueryRow(ctx, qReqSetStatus, id, status), &req); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Row exists but is no longer pending, or never existed;
			// the usecase reads first and tells the two apart.
			return nil, ErrConflict
		}
		return nil, err
	}
	return &req, nil
}

func scanRequest(row pgx.Row, out *request.Request) error {
	if err := row.Scan(
		&out.ID,
		&out.RequesterID,
		&out.TripType,
		&out.OriginCity,
		&out.DestinationCity,
		&out.DepartureDate,
		&out.Reason,
		&out.AccommodationID,
		&out.Status,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("scan request: %w", err)
	}
	return nil
}
