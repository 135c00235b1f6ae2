package user

import "context"

type Repo interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	SetLineManager(ctx context.Context, id int64, managerID *int64) error
	SetEmailOptOut(ctx context.Context, id int64, optOut bool) error
}
