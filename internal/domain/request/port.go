package request

import "context"

type Repo interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id int64) (*Request, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]*Request, error)

	// ListPendingForManager returns pending requests whose requester
	// reports to the given manager.
	ListPendingForManager(ctx context.Context, managerID int64) ([]*Request, error)

	// SetStatus transitions a pending request to a terminal status.
	// Returns ErrConflict from the storage layer when the request is
	// no longer pending.
	SetStatus(ctx context.Context, id int64, status Status) (*Request, error)
}
