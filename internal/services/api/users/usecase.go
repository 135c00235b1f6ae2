package users

import (
	"context"
	"errors"

	"github.com/fernweh-labs/tripdesk/internal/domain/user"
	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
)

var (
	ErrNoSuchManager = errors.New("line manager does not exist")
	ErrManagerCycle  = errors.New("line manager assignment would form a cycle")
	ErrSelfManager   = errors.New("cannot be your own line manager")
)

// maxChainDepth bounds the reporting-chain walk. A chain longer than
// this is corrupt data, not an org chart.
const maxChainDepth = 64

type Usecase struct {
	users user.Repo
}

func NewUsecase(users user.Repo) *Usecase {
	return &Usecase{users: users}
}

func (u *Usecase) Me(ctx context.Context, userID int64) (*user.User, error) {
	return u.users.GetByID(ctx, userID)
}

// SetLineManager points the caller at a new manager. The walk up the
// prospective manager's chain rejects assignments that would loop the
// chain back onto the caller.
func (u *Usecase) SetLineManager(ctx context.Context, userID int64, managerID *int64) error {
	if managerID == nil {
		return u.users.SetLineManager(ctx, userID, nil)
	}
	if *managerID == userID {
		return ErrSelfManager
	}

	cur := *managerID
	for depth := 0; depth < maxChainDepth; depth++ {
		mgr, err := u.users.GetByID(ctx, cur)
		if err != nil {
			if errors.Is(err, pg.ErrNotFound) {
				return ErrNoSuchManager
			}
			return err
		}
		if mgr.LineManagerID == nil {
			break
		}
		if *mgr.LineManagerID == userID {
			return ErrManagerCycle
		}
		cur = *mgr.LineManagerID
	}

	return u.users.SetLineManager(ctx, userID, managerID)
}
