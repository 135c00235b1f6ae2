package main

import (
	"context"

	config "github.com/fernweh-labs/tripdesk/internal/config/api"
	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
)

func initDB(ctx context.Context, cfg *config.Config) (*pg.DB, error) {
	return pg.NewDB(ctx, cfg.DB)
}
