package request

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fernweh-labs/tripdesk/internal/domain/accommodation"
	"github.com/fernweh-labs/tripdesk/internal/domain/request"
	"github.com/fernweh-labs/tripdesk/internal/domain/user"
	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
	"github.com/fernweh-labs/tripdesk/internal/services/dispatch"
)

var (
	ErrNotFound            = errors.New("request not found")
	ErrForbidden           = errors.New("request is not assigned to this manager")
	ErrAlreadyDecided      = errors.New("request already approved or rejected")
	ErrInvalidTrip         = errors.New("invalid trip details")
	ErrNoSuchAccommodation = errors.New("accommodation does not exist")
)

// Record pairs a request with its resolved accommodation so handlers
// can return the full listing instead of a bare foreign key.
type Record struct {
	Request       *request.Request
	Accommodation *accommodation.Accommodation
}

type Usecase struct {
	users    user.Repo
	requests request.Repo
	accomms  accommodation.Repo
	tx       pg.Transactor
	dispatch *dispatch.Dispatcher
	now      func() time.Time
}

func NewUsecase(
	users user.Repo,
	requests request.Repo,
	accomms accommodation.Repo,
	tx pg.Transactor,
	d *dispatch.Dispatcher,
) *Usecase {
	return &Usecase{
		users:    users,
		requests: requests,
		accomms:  accomms,
		tx:       tx,
		dispatch: d,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type CreateInput struct {
	TripType        string
	OriginCity      string
	DestinationCity string
	DepartureDate   time.Time
	Reason          string
	AccommodationID *string
}

// Create stores the request and notifies the requester's line manager
// in one transaction, so a dropped notification never leaves a request
// behind unannounced.
func (u *Usecase) Create(ctx context.Context, requesterID int64, in CreateInput) (*Record, error) {
	tt := request.TripType(in.TripType)
	if !tt.Valid() {
		return nil, fmt.Errorf("%w: unknown trip type %q", ErrInvalidTrip, in.TripType)
	}
	if strings.TrimSpace(in.OriginCity) == "" || strings.TrimSpace(in.DestinationCity) == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", ErrInvalidTrip)
	}
	if in.DepartureDate.IsZero() {
		return nil, fmt.Errorf("%w: departure date is required", ErrInvalidTrip)
	}

	requester, err := u.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("load requester: %w", err)
	}

	var acc *accommodation.Accommodation
	if in.AccommodationID != nil {
		acc, err = u.accomms.GetByID(ctx, *in.AccommodationID)
		if err != nil {
			if errors.Is(err, pg.ErrNotFound) {
				return nil, ErrNoSuchAccommodation
			}
			return nil, err
		}
	}

	now := u.now()
	req := &request.Request{
		RequesterID:     requesterID,
		TripType:        tt,
		OriginCity:      strings.TrimSpace(in.OriginCity),
		DestinationCity: strings.TrimSpace(in.DestinationCity),
		DepartureDate:   in.DepartureDate,
		Reason:          in.Reason,
		AccommodationID: in.AccommodationID,
		Status:          request.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = u.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := u.requests.Create(ctx, req); err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		return u.dispatch.RequestCreated(ctx, req, requester)
	})
	if err != nil {
		return nil, err
	}
	return &Record{Request: req, Accommodation: acc}, nil
}

func (u *Usecase) ListMine(ctx context.Context, requesterID int64) ([]*request.Request, error) {
	return u.requests.ListByRequester(ctx, requesterID)
}

func (u *Usecase) ListPending(ctx context.Context, managerID int64) ([]*request.Request, error) {
	return u.requests.ListPendingForManager(ctx, managerID)
}

// Decide settles a pending request. Only the requester's current line
// manager may do it, and a settled request stays settled.
func (u *Usecase) Decide(ctx context.Context, managerID, requestID int64, status request.Status) (*Record, error) {
	if !status.Terminal() {
		return nil, fmt.Errorf("%w: cannot transition to %q", ErrInvalidTrip, status)
	}

	rec, err := u.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pg.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	requester, err := u.users.GetByID(ctx, rec.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("load requester: %w", err)
	}
	if requester.LineManagerID == nil || *requester.LineManagerID != managerID {
		return nil, ErrForbidden
	}

	var updated *request.Request
	err = u.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = u.requests.SetStatus(ctx, requestID, status)
		if err != nil {
			if errors.Is(err, pg.ErrConflict) {
				return ErrAlreadyDecided
			}
			return err
		}
		return u.dispatch.RequestDecided(ctx, updated)
	})
	if err != nil {
		return nil, err
	}

	var acc *accommodation.Accommodation
	if updated.AccommodationID != nil {
		if acc, err = u.accomms.GetByID(ctx, *updated.AccommodationID); err != nil && !errors.Is(err, pg.ErrNotFound) {
			return nil, err
		}
	}
	return &Record{Request: updated, Accommodation: acc}, nil
}
