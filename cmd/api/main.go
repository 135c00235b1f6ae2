package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	config "github.com/fernweh-labs/tripdesk/internal/config/api"
	"github.com/fernweh-labs/tripdesk/internal/obs/retry"
	"github.com/fernweh-labs/tripdesk/internal/outbox"
	kafkax "github.com/fernweh-labs/tripdesk/internal/repository/kafka"
	pg "github.com/fernweh-labs/tripdesk/internal/repository/postgres"
	"github.com/fernweh-labs/tripdesk/internal/token"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "../config/api.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting api", zap.String("env", cfg.App.Env), zap.String("ver", cfg.App.Version))

	otelShutdown, err := initOTel(rootCtx, cfg)
	if err != nil {
		logger.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelShutdown(rootCtx) }()

	db, err := initDB(rootCtx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	tokens := token.NewService(token.Config{Secret: []byte(cfg.Auth.JWTSecret)})

	producer := kafkax.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic).WithLogger(logger)
	defer func() { _ = producer.Close() }()

	mailEvents := kafkax.NewMailEventsKafka(producer)
	relay := outbox.NewOutboxRunner(
		logger,
		pg.NewOutboxRepo(db),
		outbox.MakeGlobalOutboxHandler(mailEvents, retry.DefaultKafkaPolicy(logger)),
		cfg.Outbox.Workers,
		cfg.Outbox.BatchSize,
		cfg.Outbox.WaitTime,
		cfg.Outbox.InProgressTTL,
	)
	relay.Start(rootCtx)

	httpSrv := buildHTTPServer(cfg, logger, db, tokens)

	httpErrCh := make(chan error, 1)
	go func() { httpErrCh <- serveHTTP(httpSrv, cfg, logger) }()

	var runErr error
	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal", zap.String("reason", "context canceled"))
	case runErr = <-httpErrCh:
		if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			logger.Error("http serve", zap.Error(runErr))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	_ = httpSrv.Shutdown(shCtx)

	time.Sleep(100 * time.Millisecond)
	logger.Info("bye")
}
