package accommodation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fernweh-labs/tripdesk/internal/domain/accommodation"
	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
)

var (
	ErrNotFound       = errors.New("accommodation not found")
	ErrInvalidCountry = errors.New("unknown country")
	ErrInvalidListing = errors.New("invalid accommodation details")
)

type Usecase struct {
	accomms accommodation.Repo
	now     func() time.Time
	newID   func() string
}

func NewUsecase(accomms accommodation.Repo) *Usecase {
	return &Usecase{
		accomms: accomms,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

type CreateInput struct {
	Country           string
	City              string
	Address           string
	Name              string
	AccommodationType []string
	RoomType          []string
	NumRooms          int
	Description       string
	Facilities        []string
	Images            []string
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*accommodation.Accommodation, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.City) == "" {
		return nil, fmt.Errorf("%w: name and city are required", ErrInvalidListing)
	}
	if !accommodation.ValidCountry(in.Country) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCountry, in.Country)
	}

	images := in.Images
	if len(images) == 0 {
		images = []string{accommodation.DefaultImage}
	}

	now := u.now()
	a := &accommodation.Accommodation{
		ID:                u.newID(),
		Country:           in.Country,
		City:              strings.TrimSpace(in.City),
		Address:           in.Address,
		Name:              strings.TrimSpace(in.Name),
		AccommodationType: in.AccommodationType,
		RoomType:          in.RoomType,
		NumRooms:          in.NumRooms,
		Description:       in.Description,
		Facilities:        in.Facilities,
		Images:            images,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := u.accomms.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (u *Usecase) Get(ctx context.Context, id string) (*accommodation.Accommodation, error) {
	a, err := u.accomms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pg.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}
