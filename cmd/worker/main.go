package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	zlog "github.com/rs/zerolog/log"

	"github.com/medibook/booking-api/internal/config"
	mongorepo "github.com/medibook/booking-api/internal/repository/mongo"
	"github.com/medibook/booking-api/internal/worker"
	"github.com/medibook/booking-api/pkg/logger"
	"github.com/medibook/booking-api/pkg/messaging/redis"
	"github.com/medibook/booking-api/pkg/metrics"
)

// Standalone outbox relay. The API process runs the same worker in-process;
// this binary exists for deployments that want the relay isolated from
// request traffic.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := mongorepo.NewDB(mongorepo.Config{
		URI:      cfg.Database.URI,
		Database: cfg.Database.Name,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			appLogger.Error(err, "failed to close database connection")
		}
	}()

	brokerLogger := zlog.Logger
	broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.Redis.URL}, &brokerLogger)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics(cfg.Monitoring.Namespace + "_worker")
	outboxRepo := mongorepo.NewOutboxRepository(db)

	outboxWorker := worker.NewOutboxWorker(
		outboxRepo, broker, m, appLogger,
		cfg.Redis.Channel, cfg.Outbox.BatchSize, cfg.Outbox.PollInterval,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go outboxWorker.Start(ctx)

	// Metrics endpoint on its own port so the relay can be scraped.
	metricsSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port+1),
		Handler: promhttp.Handler(),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error(err, "metrics server stopped")
		}
	}()

	appLogger.Info("outbox relay started", "channel", cfg.Redis.Channel)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down outbox relay")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "failed to shut down metrics server")
	}
}
