package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/authz"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/handler"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/repository"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/router"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/service"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/cache"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/config"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/database"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/jobs"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/logger"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/messaging"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/payment"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/tracing"
)

// @title Foreign Accent API
// @version 1.0.0
// @description Course enrollment, seat accounting and role-gated dashboards for the Foreign Accent language school
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	shutdownTracing, err := tracing.Init(ctx, cfg, logr)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logr.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	if cfg.Migrations.AutoRun {
		if err := database.Migrate(cfg.Database, database.Up, 0, logr); err != nil {
			return err
		}
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	processor, err := payment.NewStripeProcessor(cfg.Payments.StripeSecretKey, logr)
	var paymentProcessor payment.Processor
	switch {
	case errors.Is(err, payment.ErrNotConfigured):
		logr.Warn("payment processor not configured, payment intents disabled")
	case err != nil:
		return fmt.Errorf("init payment processor: %w", err)
	default:
		paymentProcessor = processor
	}

	var publisher messaging.Publisher = messaging.LogPublisher{Logger: logr}
	if cfg.Events.Enabled {
		rabbit, err := messaging.NewRabbitMQPublisher(cfg.Events.AMQPURL, cfg.Events.Queue, logr)
		if err != nil {
			logr.Warn("event broker unavailable, events will only be logged", zap.Error(err))
		} else {
			publisher = rabbit
		}
	}

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "foreign-accent:")

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Catalog.CacheTTL, logr, redisClient != nil)
	events := service.NewEventService(publisher, metrics, jobs.QueueConfig{
		Workers:    cfg.Events.Workers,
		MaxRetries: cfg.Events.MaxRetries,
		RetryDelay: cfg.Events.RetryDelay,
	}, logr)
	events.Start(ctx)
	defer events.Stop()

	catalog := service.CatalogConfig{FeaturedLimit: cfg.Catalog.FeaturedLimit, CacheTTL: cfg.Catalog.CacheTTL}
	tokens := service.NewTokenService(nil, logr, service.TokenConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: cfg.JWT.Issuer,
	})
	roles := service.NewRoleService(userRepo, cfg.Auth.LookupTimeout, logr)
	users := service.NewUserService(userRepo, roles, cacheSvc, nil, logr)
	classes := service.NewClassService(classRepo, cacheSvc, events, nil, logr, catalog)
	instructors := service.NewInstructorService(repository.NewInstructorRepository(db), cacheSvc, catalog)
	selections := service.NewSelectionService(repository.NewSelectionRepository(db), classRepo, metrics, nil, logr)
	payments := service.NewPaymentService(repository.NewPaymentRepository(db), paymentProcessor, cacheSvc, events, metrics, nil, logr, service.PaymentConfig{
		Currency:         cfg.Payments.Currency,
		VerifyIntent:     cfg.Payments.VerifyIntent,
		ProcessorTimeout: cfg.Payments.ProcessorTimeout,
	})

	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		checks["cache"] = handler.PingFunc(cacheRepo.Ping)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.New(authz.NewGate(tokens, roles), router.Handlers{
		Auth:       handler.NewAuthHandler(tokens),
		Users:      handler.NewUserHandler(users),
		Classes:    handler.NewClassHandler(classes, instructors),
		Enrollment: handler.NewEnrollmentHandler(selections),
		Payments:   handler.NewPaymentHandler(payments),
		Metrics:    handler.NewMetricsHandler(metrics, checks, logr),
	}, metrics, logr, router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		EnableDocs:     cfg.Env != config.EnvProduction,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           tracing.Handler(engine, cfg.Tracing.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	events.Stop()
	logr.Info("server stopped")
	return nil
}
