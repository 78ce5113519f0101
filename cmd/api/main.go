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
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medibook/booking-api/internal/config"
	"github.com/medibook/booking-api/internal/gateway"
	"github.com/medibook/booking-api/internal/handler"
	adminHandler "github.com/medibook/booking-api/internal/handler/admin"
	doctorHandler "github.com/medibook/booking-api/internal/handler/doctor"
	patientHandler "github.com/medibook/booking-api/internal/handler/patient"
	paymentHandler "github.com/medibook/booking-api/internal/handler/payment"
	"github.com/medibook/booking-api/internal/middleware"
	mongorepo "github.com/medibook/booking-api/internal/repository/mongo"
	"github.com/medibook/booking-api/internal/router"
	authService "github.com/medibook/booking-api/internal/service/auth"
	bookingService "github.com/medibook/booking-api/internal/service/booking"
	doctorService "github.com/medibook/booking-api/internal/service/doctor"
	eventService "github.com/medibook/booking-api/internal/service/event"
	notificationService "github.com/medibook/booking-api/internal/service/notification"
	patientService "github.com/medibook/booking-api/internal/service/patient"
	paymentService "github.com/medibook/booking-api/internal/service/payment"
	"github.com/medibook/booking-api/internal/upload"
	"github.com/medibook/booking-api/internal/worker"
	"github.com/medibook/booking-api/pkg/auth"
	"github.com/medibook/booking-api/pkg/logger"
	"github.com/medibook/booking-api/pkg/messaging/redis"
	"github.com/medibook/booking-api/pkg/metrics"
	"github.com/medibook/booking-api/pkg/security"
)

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

	patientRepo := mongorepo.NewPatientRepository(db)
	doctorRepo := mongorepo.NewDoctorRepository(db)
	appointmentRepo := mongorepo.NewAppointmentRepository(db)
	outboxRepo := mongorepo.NewOutboxRepository(db)

	uploader, err := upload.NewCloudinaryUploader(upload.CloudinaryConfig{
		CloudName: cfg.Secrets.CloudinaryCloud,
		APIKey:    cfg.Secrets.CloudinaryKey,
		APISecret: cfg.Secrets.CloudinarySecret,
		Folder:    "avatars",
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to init upload client")
	}

	hasher := security.NewBcryptHasher(0)
	jwtSvc := auth.NewJWTService(cfg.Secrets.JWTSecret)

	eventSvc := eventService.NewService(outboxRepo, appLogger)
	notifySvc := notificationService.NewService(cfg.SMTP, appLogger)

	authSvc := authService.NewService(patientRepo, doctorRepo, hasher, jwtSvc, authService.AdminCredentials{
		Email:    cfg.Secrets.AdminEmail,
		Password: cfg.Secrets.AdminPassword,
	})
	patientSvc := patientService.NewService(patientRepo, uploader, appLogger)
	doctorSvc := doctorService.NewService(doctorRepo, hasher, uploader)
	bookingSvc := bookingService.NewService(doctorRepo, patientRepo, appointmentRepo, eventSvc, notifySvc, appLogger)

	razorpayGateway := gateway.NewRazorpay(cfg.Secrets.RazorpayKeyID, cfg.Secrets.RazorpayKeySecret)
	paymentSvc := paymentService.NewService(razorpayGateway, appointmentRepo, eventSvc, cfg.Secrets.RazorpayKeySecret, cfg.Payment.Currency)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, cfg.Secrets.AdminEmail)
	m := metrics.NewMetrics(cfg.Monitoring.Namespace)

	r := router.NewRouter(
		authMiddleware,
		handler.NewHandler(),
		m,
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			CORS:             middleware.DefaultCORSConfig(),
			MetricsPath:      cfg.Monitoring.MetricsPath,
		},
		patientHandler.NewHandler(authSvc, patientSvc, bookingSvc),
		doctorHandler.NewHandler(authSvc, doctorSvc, bookingSvc),
		adminHandler.NewHandler(authSvc, doctorSvc, bookingSvc),
		paymentHandler.NewHandler(paymentSvc),
	)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	if cfg.Redis.URL != "" {
		brokerLogger := zlog.Logger
		broker, err := redis.NewRedisBroker(redis.Config{URL: cfg.Redis.URL}, &brokerLogger)
		if err != nil {
			zlog.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()

		outboxWorker := worker.NewOutboxWorker(
			outboxRepo, broker, m, appLogger,
			cfg.Redis.Channel, cfg.Outbox.BatchSize, cfg.Outbox.PollInterval,
		)
		go outboxWorker.Start(workerCtx)
	} else {
		appLogger.Warn("no redis url configured, outbox relay disabled")
	}

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info("server exited")
}
