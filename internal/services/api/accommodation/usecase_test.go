package accommodation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernweh-labs/tripdesk/internal/domain/accommodation"
	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
)

type memAccomms struct {
	byID map[string]*accommodation.Accommodation
}

func (m *memAccomms) Create(ctx context.Context, a *accommodation.Accommodation) error {
	if m.byID == nil {
		m.byID = map[string]*accommodation.Accommodation{}
	}
	m.byID[a.ID] = a
	return nil
}
func (m *memAccomms) GetByID(ctx context.Context, id string) (*accommodation.Accommodation, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, pg.ErrNotFound
	}
	return a, nil
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	uc := NewUsecase(&memAccomms{})

	a, err := uc.Create(context.Background(), CreateInput{
		Country: "Kenya",
		City:    "Nairobi",
		Name:    "Acacia Lodge",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	require.Len(t, a.Images, 1)
	assert.Equal(t, accommodation.DefaultImage, a.Images[0])
}

func TestCreateKeepsProvidedImages(t *testing.T) {
	uc := NewUsecase(&memAccomms{})

	a, err := uc.Create(context.Background(), CreateInput{
		Country: "Ghana",
		City:    "Accra",
		Name:    "Palm House",
		Images:  []string{"https://example.com/a.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a.jpg"}, a.Images)
}

func TestCreateRejectsUnknownCountry(t *testing.T) {
	uc := NewUsecase(&memAccomms{})

	_, err := uc.Create(context.Background(), CreateInput{
		Country: "Atlantis",
		City:    "Somewhere",
		Name:    "Lost Hotel",
	})
	assert.ErrorIs(t, err, ErrInvalidCountry)
}

func TestCreateRequiresNameAndCity(t *testing.T) {
	uc := NewUsecase(&memAccomms{})

	_, err := uc.Create(context.Background(), CreateInput{Country: "Kenya", City: "Nairobi"})
	assert.ErrorIs(t, err, ErrInvalidListing)
}

func TestGetRoundTrip(t *testing.T) {
	store := &memAccomms{}
	uc := NewUsecase(store)

	created, err := uc.Create(context.Background(), CreateInput{
		Country: "Rwanda",
		City:    "Kigali",
		Name:    "Hillside",
	})
	require.NoError(t, err)

	got, err := uc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	_, err = uc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountryValidation(t *testing.T) {
	assert.True(t, accommodation.ValidCountry("Nigeria"))
	assert.True(t, accommodation.ValidCountry("Bosnia and Herzegovina"))
	assert.False(t, accommodation.ValidCountry("nigeria"))
	assert.False(t, accommodation.ValidCountry(""))
}
