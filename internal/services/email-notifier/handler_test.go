package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fernweh-labs/tripdesk/internal/domain/notification"
	"github.com/fernweh-labs/tripdesk/internal/domain/user"
	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
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

type fakeStore struct {
	byID   map[int64]*notification.Notification
	marked []int64
}

func (f *fakeStore) Create(ctx context.Context, n *notification.Notification) error { return nil }
func (f *fakeStore) GetByID(ctx context.Context, id int64) (*notification.Notification, error) {
	n, ok := f.byID[id]
	if !ok {
		return nil, pg.ErrNotFound
	}
	return n, nil
}
func (f *fakeStore) ListByRecipient(ctx context.Context, recipientID int64) ([]*notification.Notification, error) {
	return nil, nil
}
func (f *fakeStore) MarkRead(ctx context.Context, id, recipientID int64) error { return nil }
func (f *fakeStore) MarkAllRead(ctx context.Context, recipientID int64) error  { return nil }
func (f *fakeStore) DeleteByRecipient(ctx context.Context, recipientID int64) error {
	return nil
}
func (f *fakeStore) MarkSent(ctx context.Context, id int64) error {
	f.marked = append(f.marked, id)
	return nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+"|"+subject+"|"+body)
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newHandler(users *fakeUsers, store *fakeStore, out *fakeSender) *Handler {
	return &Handler{
		Users: users,
		Store: store,
		Out:   out,
		Clock: fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		Log:   zap.NewNop(),
	}
}

func TestHandleMailRequestedSends(t *testing.T) {
	users := &fakeUsers{byID: map[int64]*user.User{
		7: {ID: 7, Email: "ada@example.com", FirstName: "Ada"},
	}}
	store := &fakeStore{byID: map[int64]*notification.Notification{
		1: {ID: 1, RecipientID: 7, Message: "Your trip request to Kigali was approved"},
	}}
	out := &fakeSender{}

	h := newHandler(users, store, out)
	err := h.HandleMailRequested(context.Background(), notification.MailRequested{NotificationID: 1})
	require.NoError(t, err)

	require.Len(t, out.sent, 1)
	assert.Contains(t, out.sent[0], "ada@example.com")
	assert.Contains(t, out.sent[0], "Kigali")
	assert.Contains(t, out.sent[0], "Ada")
	assert.Equal(t, []int64{1}, store.marked)
}

func TestHandleMailRequestedSkipsWhenSent(t *testing.T) {
	users := &fakeUsers{byID: map[int64]*user.User{7: {ID: 7, Email: "a@b.c"}}}
	store := &fakeStore{byID: map[int64]*notification.Notification{
		1: {ID: 1, RecipientID: 7, Sent: true},
	}}
	out := &fakeSender{}

	h := newHandler(users, store, out)
	require.NoError(t, h.HandleMailRequested(context.Background(), notification.MailRequested{NotificationID: 1}))
	assert.Empty(t, out.sent)
	assert.Empty(t, store.marked)
}

func TestHandleMailRequestedHonorsLateOptOut(t *testing.T) {
	users := &fakeUsers{byID: map[int64]*user.User{
		7: {ID: 7, Email: "a@b.c", EmailOptOut: true},
	}}
	store := &fakeStore{byID: map[int64]*notification.Notification{
		1: {ID: 1, RecipientID: 7},
	}}
	out := &fakeSender{}

	h := newHandler(users, store, out)
	require.NoError(t, h.HandleMailRequested(context.Background(), notification.MailRequested{NotificationID: 1}))
	assert.Empty(t, out.sent)
}

func TestHandleMailRequestedSendFailureKeepsUnsent(t *testing.T) {
	users := &fakeUsers{byID: map[int64]*user.User{7: {ID: 7, Email: "a@b.c"}}}
	store := &fakeStore{byID: map[int64]*notification.Notification{
		1: {ID: 1, RecipientID: 7},
	}}
	out := &fakeSender{err: errors.New("smtp refused")}

	h := newHandler(users, store, out)
	err := h.HandleMailRequested(context.Background(), notification.MailRequested{NotificationID: 1})
	require.Error(t, err)
	assert.Empty(t, store.marked)
}

func TestHandleMailRequestedMissingNotification(t *testing.T) {
	h := newHandler(&fakeUsers{byID: map[int64]*user.User{}}, &fakeStore{byID: map[int64]*notification.Notification{}}, &fakeSender{})

	err := h.HandleMailRequested(context.Background(), notification.MailRequested{NotificationID: 404})
	assert.Error(t, err)
}
