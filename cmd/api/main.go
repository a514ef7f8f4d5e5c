package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/guhospital/hms-api/internal/config"
	"github.com/guhospital/hms-api/internal/email"
	"github.com/guhospital/hms-api/internal/handler"
	appointmentHandler "github.com/guhospital/hms-api/internal/handler/appointment"
	auditlogHandler "github.com/guhospital/hms-api/internal/handler/auditlog"
	authHandler "github.com/guhospital/hms-api/internal/handler/auth"
	invoiceHandler "github.com/guhospital/hms-api/internal/handler/invoice"
	medicalrecordHandler "github.com/guhospital/hms-api/internal/handler/medicalrecord"
	patientHandler "github.com/guhospital/hms-api/internal/handler/patient"
	prescriptionHandler "github.com/guhospital/hms-api/internal/handler/prescription"
	scheduleHandler "github.com/guhospital/hms-api/internal/handler/schedule"
	userHandler "github.com/guhospital/hms-api/internal/handler/user"
	"github.com/guhospital/hms-api/internal/middleware"
	"github.com/guhospital/hms-api/internal/repository/postgres"
	redisrepo "github.com/guhospital/hms-api/internal/repository/redis"
	"github.com/guhospital/hms-api/internal/router"
	appointmentService "github.com/guhospital/hms-api/internal/service/appointment"
	auditService "github.com/guhospital/hms-api/internal/service/audit"
	authService "github.com/guhospital/hms-api/internal/service/auth"
	billingService "github.com/guhospital/hms-api/internal/service/billing"
	medicalService "github.com/guhospital/hms-api/internal/service/medical"
	patientService "github.com/guhospital/hms-api/internal/service/patient"
	prescriptionService "github.com/guhospital/hms-api/internal/service/prescription"
	scheduleService "github.com/guhospital/hms-api/internal/service/schedule"
	userService "github.com/guhospital/hms-api/internal/service/user"
	internalWorker "github.com/guhospital/hms-api/internal/worker"
	"github.com/guhospital/hms-api/pkg/auth"
	"github.com/guhospital/hms-api/pkg/logger"
	msgredis "github.com/guhospital/hms-api/pkg/messaging/redis"
	"github.com/guhospital/hms-api/pkg/metrics"
	"github.com/guhospital/hms-api/pkg/security"
	"github.com/guhospital/hms-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.NewLogger(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Logger.Pretty,
	})

	registerValidators()

	db, err := postgres.NewDB(postgres.DBConfig{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Name:         cfg.Database.Name,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxLifetime:  cfg.Database.MaxLifetime,
	})
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	redisClient, err := msgredis.NewClient(msgredis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	appMetrics := metrics.NewMetricsWith("hms", registry)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	patientInfoRepo := postgres.NewPatientInfoRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	recordRepo := postgres.NewMedicalRecordRepository(db)
	fileRepo := postgres.NewMedicalFileRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	tokenRepo := redisrepo.NewTokenRepository(redisClient)

	// Shared infrastructure
	jwtService := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	mailer := email.NewService(email.Config{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		Enabled:  cfg.Email.Enabled,
	}, log)
	broker := msgredis.NewRedisBroker(redisClient)

	// Services
	auditSvc := auditService.NewService(auditRepo, log)
	authSvc := authService.NewService(userRepo, tokenRepo, jwtService, hasher,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	userSvc := userService.NewService(userRepo)
	patientSvc := patientService.NewService(patientInfoRepo, userRepo, auditSvc)
	scheduleSvc := scheduleService.NewService(scheduleRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, userRepo,
		scheduleRepo, outboxRepo, auditSvc, mailer, appMetrics, log)
	medicalSvc := medicalService.NewService(recordRepo, fileRepo, userRepo, auditSvc)
	prescriptionSvc := prescriptionService.NewService(prescriptionRepo, userRepo,
		outboxRepo, auditSvc, log)
	billingSvc := billingService.NewService(invoiceRepo, userRepo, outboxRepo,
		auditSvc, mailer, appMetrics, log)

	// HTTP layer
	authMW := middleware.NewAuthMiddleware(jwtService, tokenRepo)
	healthH := handler.NewHealthHandler(db, redisClient)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	if len(cfg.CORS.AllowedMethods) > 0 {
		corsConfig.AllowMethods = cfg.CORS.AllowedMethods
	}
	if len(cfg.CORS.AllowedHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.CORS.AllowedHeaders
	}

	r := router.NewRouter(
		authMW,
		healthH,
		authHandler.NewHandler(authSvc),
		userHandler.NewHandler(userSvc),
		patientHandler.NewHandler(patientSvc),
		scheduleHandler.NewHandler(scheduleSvc, appointmentSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		medicalrecordHandler.NewHandler(medicalSvc),
		prescriptionHandler.NewHandler(prescriptionSvc),
		invoiceHandler.NewHandler(billingSvc),
		auditlogHandler.NewHandler(auditSvc),
		router.RouterConfig{
			RateLimit:     rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:     cfg.RateLimit.Burst,
			Timeout:       cfg.Server.RequestTimeout,
			CORSConfig:    corsConfig,
			MetricsPrefix: "hms_http",
			Registry:      registry,
		},
	)
	r.Setup()

	// Background workers
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:    cfg.Outbox.BatchSize,
		PollInterval: cfg.Outbox.PollInterval,
		MaxRetries:   cfg.Outbox.MaxRetries,
	}, log, appMetrics)
	go outboxProcessor.Start(ctx)

	retentionWorker := internalWorker.NewRetentionWorker(auditSvc,
		cfg.Audit.Retention, cfg.Audit.CleanupInterval, log)
	go retentionWorker.Start(ctx)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "graceful shutdown failed")
	}
	log.Info("server stopped")
}

// registerValidators wires custom binding validators used by request models
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			_, err := time.Parse("15:04", fl.Field().String())
			return err == nil
		})
	}
}
