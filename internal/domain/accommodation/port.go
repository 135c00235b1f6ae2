package accommodation

import "context"

type Repo interface {
	Create(ctx context.Context, a *Accommodation) error
	GetByID(ctx context.Context, id string) (*Accommodation, error)
}
