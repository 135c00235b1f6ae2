package request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fernweh-labs/tripdesk/internal/domain/accommodation"
	"github.com/fernweh-labs/tripdesk/internal/domain/notification"
	"github.com/fernweh-labs/tripdesk/internal/domain/outbox"
	"github.com/fernweh-labs/tripdesk/internal/domain/request"
	"github.com/fernweh-labs/tripdesk/internal/domain/user"
	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
	"github.com/fernweh-labs/tripdesk/internal/services/dispatch"
)

type fakeUsers struct {
	byID map[int64]*user.User
}

func (f *fakeUsers) Create(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, pg.ErrNotFound
	}
	return u, nil
}
func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, pg.ErrNotFound
}
func (f *fakeUsers) SetLineManager(ctx context.Context, id int64, managerID *int64) error {
	return nil
}
func (f *fakeUsers) SetEmailOptOut(ctx context.Context, id int64, optOut bool) error { return nil }

type fakeRequests struct {
	byID    map[int64]*request.Request
	nextID  int64
	created []*request.Request
}

func (f *fakeRequests) Create(ctx context.Context, r *request.Request) error {
	f.nextID++
	r.ID = f.nextID
	f.created = append(f.created, r)
	if f.byID == nil {
		f.byID = map[int64]*request.Request{}
	}
	f.byID[r.ID] = r
	return nil
}
func (f *fakeRequests) GetByID(ctx context.Context, id int64) (*request.Request, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, pg.ErrNotFound
	}
	return r, nil
}
func (f *fakeRequests) ListByRequester(ctx context.Context, requesterID int64) ([]*request.Request, error) {
	var out []*request.Request
	for _, r := range f.created {
		if r.RequesterID == requesterID {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeRequests) ListPendingForManager(ctx context.Context, managerID int64) ([]*request.Request, error) {
	return nil, nil
}
func (f *fakeRequests) SetStatus(ctx context.Context, id int64, status request.Status) (*request.Request, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, pg.ErrNotFound
	}
	if r.Status.Terminal() {
		return nil, pg.ErrConflict
	}
	cp := *r
	cp.Status = status
	f.byID[id] = &cp
	return &cp, nil
}

type fakeAccomms struct {
	byID map[string]*accommodation.Accommodation
}

func (f *fakeAccomms) Create(ctx context.Context, a *accommodation.Accommodation) error { return nil }
func (f *fakeAccomms) GetByID(ctx context.Context, id string) (*accommodation.Accommodation, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, pg.ErrNotFound
	}
	return a, nil
}

type fakeNotifs struct {
	nextID  int64
	created []*notification.Notification
}

func (f *fakeNotifs) Create(ctx context.Context, n *notification.Notification) error {
	f.nextID++
	n.ID = f.nextID
	f.created = append(f.created, n)
	return nil
}
func (f *fakeNotifs) GetByID(ctx context.Context, id int64) (*notification.Notification, error) {
	return nil, pg.ErrNotFound
}
func (f *fakeNotifs) ListByRecipient(ctx context.Context, recipientID int64) ([]*notification.Notification, error) {
	return nil, nil
}
func (f *fakeNotifs) MarkRead(ctx context.Context, id, recipientID int64) error { return nil }
func (f *fakeNotifs) MarkAllRead(ctx context.Context, recipientID int64) error  { return nil }
func (f *fakeNotifs) DeleteByRecipient(ctx context.Context, recipientID int64) error {
	return nil
}
func (f *fakeNotifs) MarkSent(ctx context.Context, id int64) error { return nil }

type fakeOutbox struct {
	enqueued []string
}

func (f *fakeOutbox) Enqueue(ctx context.Context, key string, kind outbox.Kind, data []byte) error {
	f.enqueued = append(f.enqueued, key)
	return nil
}
func (f *fakeOutbox) PickBatch(ctx context.Context, batch int, ttl time.Duration) ([]outbox.Message, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSuccess(ctx context.Context, keys []string) error { return nil }

type passthroughTx struct{}

func (passthroughTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func ptrInt64(v int64) *int64 { return &v }

func newFixture(users map[int64]*user.User) (*Usecase, *fakeRequests, *fakeNotifs, *fakeOutbox) {
	ur := &fakeUsers{byID: users}
	rr := &fakeRequests{byID: map[int64]*request.Request{}}
	nr := &fakeNotifs{}
	ob := &fakeOutbox{}
	d := dispatch.New(ur, nr, ob, zap.NewNop())
	uc := NewUsecase(ur, rr, &fakeAccomms{byID: map[string]*accommodation.Accommodation{}}, passthroughTx{}, d)
	return uc, rr, nr, ob
}

func TestCreateNotifiesLineManager(t *testing.T) {
	uc, rr, nr, ob := newFixture(map[int64]*user.User{
		1: {ID: 1, FirstName: "Ada", LastName: "Lovelace", LineManagerID: ptrInt64(2)},
		2: {ID: 2, Email: "boss@example.com"},
	})

	req, err := uc.Create(context.Background(), 1, CreateInput{
		TripType:        "round-trip",
		OriginCity:      "Lagos",
		DestinationCity: "Nairobi",
		DepartureDate:   time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, request.StatusPending, req.Request.Status)
	assert.Nil(t, req.Accommodation)
	require.Len(t, rr.created, 1)

	require.Len(t, nr.created, 1)
	n := nr.created[0]
	assert.Equal(t, int64(2), n.RecipientID)
	assert.Contains(t, n.Message, "Ada Lovelace")
	assert.Contains(t, n.Message, "Nairobi")

	assert.Len(t, ob.enqueued, 1)
}

func TestCreateOptedOutManagerSkipsEmail(t *testing.T) {
	uc, _, nr, ob := newFixture(map[int64]*user.User{
		1: {ID: 1, LineManagerID: ptrInt64(2)},
		2: {ID: 2, EmailOptOut: true},
	})

	_, err := uc.Create(context.Background(), 1, CreateInput{
		TripType:        "one-way",
		OriginCity:      "Accra",
		DestinationCity: "Kumasi",
		DepartureDate:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	// the in-app notification still lands, only the email is suppressed
	assert.Len(t, nr.created, 1)
	assert.Empty(t, ob.enqueued)
}

func TestCreateWithoutLineManager(t *testing.T) {
	uc, rr, nr, ob := newFixture(map[int64]*user.User{
		1: {ID: 1},
	})

	_, err := uc.Create(context.Background(), 1, CreateInput{
		TripType:        "multi-city",
		OriginCity:      "Cairo",
		DestinationCity: "Tunis",
		DepartureDate:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Len(t, rr.created, 1)
	assert.Empty(t, nr.created)
	assert.Empty(t, ob.enqueued)
}

func TestCreateRejectsBadTrip(t *testing.T) {
	uc, _, _, _ := newFixture(map[int64]*user.User{1: {ID: 1}})

	_, err := uc.Create(context.Background(), 1, CreateInput{
		TripType:        "teleport",
		OriginCity:      "A",
		DestinationCity: "B",
		DepartureDate:   time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidTrip)

	_, err = uc.Create(context.Background(), 1, CreateInput{
		TripType:        "one-way",
		OriginCity:      "  ",
		DestinationCity: "B",
		DepartureDate:   time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidTrip)
}

func TestCreateUnknownAccommodation(t *testing.T) {
	uc, _, _, _ := newFixture(map[int64]*user.User{1: {ID: 1}})

	missing := "no-such-id"
	_, err := uc.Create(context.Background(), 1, CreateInput{
		TripType:        "one-way",
		OriginCity:      "A",
		DestinationCity: "B",
		DepartureDate:   time.Now(),
		AccommodationID: &missing,
	})
	assert.ErrorIs(t, err, ErrNoSuchAccommodation)
}

func TestCreateResolvesAccommodation(t *testing.T) {
	ur := &fakeUsers{byID: map[int64]*user.User{1: {ID: 1}}}
	rr := &fakeRequests{byID: map[int64]*request.Request{}}
	ar := &fakeAccomms{byID: map[string]*accommodation.Accommodation{
		"acc-1": {ID: "acc-1", Name: "Eko Hotel", City: "Lagos", Country: "Nigeria"},
	}}
	d := dispatch.New(ur, &fakeNotifs{}, &fakeOutbox{}, zap.NewNop())
	uc := NewUsecase(ur, rr, ar, passthroughTx{}, d)

	id := "acc-1"
	rec, err := uc.Create(context.Background(), 1, CreateInput{
		TripType:        "one-way",
		OriginCity:      "Abuja",
		DestinationCity: "Lagos",
		DepartureDate:   time.Now().Add(24 * time.Hour),
		AccommodationID: &id,
	})
	require.NoError(t, err)
	require.NotNil(t, rec.Accommodation)
	assert.Equal(t, "Eko Hotel", rec.Accommodation.Name)
	assert.Equal(t, &id, rec.Request.AccommodationID)
}

func TestDecideApproveNotifiesRequester(t *testing.T) {
	uc, rr, nr, _ := newFixture(map[int64]*user.User{
		1: {ID: 1, LineManagerID: ptrInt64(2)},
		2: {ID: 2},
	})
	rr.byID[10] = &request.Request{ID: 10, RequesterID: 1, DestinationCity: "Kigali", Status: request.StatusPending}

	updated, err := uc.Decide(context.Background(), 2, 10, request.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, request.StatusApproved, updated.Request.Status)

	require.Len(t, nr.created, 1)
	assert.Equal(t, int64(1), nr.created[0].RecipientID)
	assert.Contains(t, nr.created[0].Message, "approved")
}

func TestDecideWrongManagerForbidden(t *testing.T) {
	uc, rr, _, _ := newFixture(map[int64]*user.User{
		1: {ID: 1, LineManagerID: ptrInt64(2)},
		2: {ID: 2},
		3: {ID: 3},
	})
	rr.byID[10] = &request.Request{ID: 10, RequesterID: 1, Status: request.StatusPending}

	_, err := uc.Decide(context.Background(), 3, 10, request.StatusRejected)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDecideSettledRequestConflicts(t *testing.T) {
	uc, rr, _, _ := newFixture(map[int64]*user.User{
		1: {ID: 1, LineManagerID: ptrInt64(2)},
		2: {ID: 2},
	})
	rr.byID[10] = &request.Request{ID: 10, RequesterID: 1, Status: request.StatusApproved}

	_, err := uc.Decide(context.Background(), 2, 10, request.StatusRejected)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

func TestDecideUnknownRequest(t *testing.T) {
	uc, _, _, _ := newFixture(map[int64]*user.User{2: {ID: 2}})

	_, err := uc.Decide(context.Background(), 2, 404, request.StatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)
}
