package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	config "github.com/fernweh-labs/tripdesk/internal/config/api"
	"github.com/fernweh-labs/tripdesk/internal/obs"
	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
	"github.com/fernweh-labs/tripdesk/internal/services/api"
	"github.com/fernweh-labs/tripdesk/internal/services/api/accommodation"
	"github.com/fernweh-labs/tripdesk/internal/services/api/auth"
	"github.com/fernweh-labs/tripdesk/internal/services/api/notification"
	"github.com/fernweh-labs/tripdesk/internal/services/api/request"
	"github.com/fernweh-labs/tripdesk/internal/services/api/users"
	"github.com/fernweh-labs/tripdesk/internal/services/dispatch"
	"github.com/fernweh-labs/tripdesk/internal/token"
)

func buildHTTPServer(cfg *config.Config, logger *zap.Logger, db *pg.DB, tokens *token.Service) *http.Server {
	userRepo := pg.NewUserRepo(db)
	notifRepo := pg.NewNotificationRepo(db)
	reqRepo := pg.NewRequestRepo(db)
	accomRepo := pg.NewAccommodationRepo(db)
	outboxRepo := pg.NewOutboxRepo(db)
	tx := pg.NewTransactor(db, logger)

	disp := dispatch.New(userRepo, notifRepo, outboxRepo, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(api.Recovery(logger), api.RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		hctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Pool.Ping(hctx); err != nil {
			c.String(http.StatusServiceUnavailable, "unhealthy: db")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(obs.MetricsHandler()))

	v1 := r.Group("/api/v1")
	auth.NewHandler(logger, auth.NewUsecase(userRepo, tokens)).Register(v1)

	authed := v1.Group("")
	authed.Use(api.RequireAuth(tokens))
	notification.NewHandler(logger, notification.NewUsecase(userRepo, notifRepo)).Register(authed)
	request.NewHandler(logger, request.NewUsecase(userRepo, reqRepo, accomRepo, tx, disp)).Register(authed)
	accommodation.NewHandler(logger, accommodation.NewUsecase(accomRepo)).Register(authed)
	users.NewHandler(logger, users.NewUsecase(userRepo)).Register(authed)

	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           otelhttp.NewHandler(r, "api"),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

func serveHTTP(srv *http.Server, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("http listening", zap.String("addr", cfg.Server.HTTPAddr))
	return srv.ListenAndServe()
}
