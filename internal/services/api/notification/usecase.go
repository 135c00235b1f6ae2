package notification

import (
	"context"

	"github.com/fernweh-labs/tripdesk/internal/domain/notification"
	"github.com/fernweh-labs/tripdesk/internal/domain/user"
)

type Usecase struct {
	users  user.Repo
	notifs notification.Repo
}

func NewUsecase(users user.Repo, notifs notification.Repo) *Usecase {
	return &Usecase{users: users, notifs: notifs}
}

func (u *Usecase) OptOut(ctx context.Context, userID int64) error {
	return u.users.SetEmailOptOut(ctx, userID, true)
}

func (u *Usecase) OptIn(ctx context.Context, userID int64) error {
	return u.users.SetEmailOptOut(ctx, userID, false)
}

func (u *Usecase) List(ctx context.Context, userID int64) ([]*notification.Notification, error) {
	return u.notifs.ListByRecipient(ctx, userID)
}

// MarkRead is scoped to the caller. Marking a notification that is not
// theirs silently does nothing.
func (u *Usecase) MarkRead(ctx context.Context, id, userID int64) error {
	return u.notifs.MarkRead(ctx, id, userID)
}

func (u *Usecase) MarkAllRead(ctx context.Context, userID int64) error {
	return u.notifs.MarkAllRead(ctx, userID)
}

func (u *Usecase) Clear(ctx context.Context, userID int64) error {
	return u.notifs.DeleteByRecipient(ctx, userID)
}
