package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	config "github.com/fernweh-labs/tripdesk/internal/config/email-notifier"
	"github.com/fernweh-labs/tripdesk/internal/obs"
	kafkax "github.com/fernweh-labs/tripdesk/internal/repository/kafka"
	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
	notifier "github.com/fernweh-labs/tripdesk/internal/services/email-notifier"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func wiring(db *pg.DB, cfg *config.Config, cons *kafkax.Consumer, l *zap.Logger) *notifier.Controller {
	mailer := notifier.New(cfg.SMTP).WithLogger(l)

	uc := &notifier.Handler{
		Users: pg.NewUserRepo(db),
		Store: pg.NewNotificationRepo(db),
		Out:   mailer,
		Clock: systemClock{},
		Log:   l,
	}

	return &notifier.Controller{Log: l, Sub: cons, UC: uc}
}

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "../config/email-notifier.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal(err)
	}

	l, err := obs.NewLogger(cfg.Log.AsLoggerConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = l.Sync() }()

	l.Info("starting email-notifier",
		zap.Any("kafka_in", cfg.In),
		zap.String("metrics_addr", cfg.Server.MetricsAddr),
		zap.String("smtp_addr", cfg.SMTP.Addr),
	)

	otelCloser, err := obs.SetupOTel(rootCtx, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Warn("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	db, err := pg.NewDB(rootCtx, cfg.DB)
	if err != nil {
		l.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	l.Info("db connected")

	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, func(ctx context.Context) error {
		hctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		return db.Pool.Ping(hctx)
	}, l)

	cons := kafkax.BootstrapConsumer(rootCtx, cfg.In.AsConsumerConfig(), l).WithLogger(l)
	defer func() { _ = cons.Close() }()
	l.Info("kafka consumer initialized",
		zap.Strings("brokers", cfg.In.Brokers),
		zap.String("group_id", cfg.In.GroupID),
		zap.String("topic", cfg.In.Topic),
	)

	ctrl := wiring(db, cfg, cons, l)
	errCh := make(chan error, 1)
	go func() {
		l.Info("controller starting")
		errCh <- ctrl.Run(rootCtx)
	}()

	var runErr error
	select {
	case <-rootCtx.Done():
		l.Info("shutdown signal")
	case runErr = <-errCh:
		if runErr != nil && !errors.Is(runErr, context.Canceled) {
			l.Error("controller error", zap.Error(runErr))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
