package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"tours-api/internal/authz"
	"tours-api/internal/cache"
	"tours-api/internal/config"
	"tours-api/internal/database"
	"tours-api/internal/handler"
	"tours-api/internal/logger"
	"tours-api/internal/mailer"
	"tours-api/internal/middleware"
	"tours-api/internal/queue"
	"tours-api/internal/repository"
	"tours-api/internal/router"
	"tours-api/internal/service"
	"tours-api/internal/storage"
	"tours-api/internal/telemetry"
	"tours-api/internal/validator"
	"tours-api/pkg/auth"
)

// @title           Tours API
// @version         1.0
// @description     A REST API for booking tours: tours, users and reviews, built with Gin, MongoDB and Redis.

// @contact.name    API Support
// @contact.email   support@example.com

// @host            localhost:8000
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your bearer token in the format: Bearer {token}

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(cfg.Env, cfg.LogLevel)
	log.Info().Str("env", cfg.Env).Msg("configuration loaded")

	// run returns instead of exiting so its deferred cleanup always runs.
	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server shutdown complete")
}

func run(cfg *config.Config, log *logger.Logger) error {
	// Register custom validators
	validator.RegisterCustomValidators()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing
	tel, err := telemetry.New(ctx, cfg.Telemetry, cfg.Env)
	if err != nil {
		return fmt.Errorf("set up telemetry: %w", err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := tel.Shutdown(flushCtx); err != nil {
			log.Error().Err(err).Msg("telemetry shutdown error")
		}
	}()

	// Database
	mongoDB, err := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase, log)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer mongoDB.Close()

	indexCtx, indexCancel := context.WithTimeout(ctx, 30*time.Second)
	_, err = database.EnsureIndexes(indexCtx, mongoDB.Database)
	indexCancel()
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	// Redis is optional: without it the identity cache is skipped and the
	// rate limiter keeps its counters in process.
	var userCache cache.Cache
	var rateLimiter *middleware.RateLimiter
	redisCache, err := cache.NewRedis(cfg.RedisURI, log)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without cache")
		rateLimiter = middleware.NewRateLimiter(nil, cfg.RateLimit.Requests, cfg.RateLimit.Window)
	} else {
		defer redisCache.Close()
		userCache = redisCache
		rateLimiter = middleware.NewRateLimiter(redisCache.Client(), cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	// S3 Storage
	var store storage.Storage
	if cfg.S3Enabled() {
		s3Client, err := storage.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return fmt.Errorf("configure S3: %w", err)
		}
		store = s3Client
	} else {
		log.Info().Msg("S3 not configured, upload URLs are disabled")
	}

	// Email queue and processor
	sender := mailer.New(cfg, log)
	emailQueue := queue.NewMemoryQueue(cfg.Email.QueueSize)
	emailProcessor := queue.NewProcessor(emailQueue, sender, log, cfg.Email.Workers)

	// JWT Manager
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)

	// Repository layer
	userRepo := repository.NewUserRepository(mongoDB.Database)
	tourRepo := repository.NewTourRepository(mongoDB.Database)
	reviewRepo := repository.NewReviewRepository(mongoDB.Database)

	// Authorization
	authorizer := authz.DefaultPolicy

	// Service layer
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     userRepo,
		Cache:        userCache,
		JWTManager:   jwtManager,
		Mailer:       sender,
		EmailQueue:   emailQueue,
		ResetTTL:     cfg.PasswordResetTTL,
		UserCacheTTL: cfg.UserCacheTTL,
		PublicURL:    cfg.PublicURL,
	})
	userService := service.NewUserService(userRepo, userCache, store)
	tourService := service.NewTourService(service.TourServiceConfig{
		TourRepo:   tourRepo,
		ReviewRepo: reviewRepo,
		UserRepo:   userRepo,
		Authorizer: authorizer,
		Storage:    store,
	})
	reviewService := service.NewReviewService(reviewRepo, tourRepo, authorizer)

	// Router
	r := router.Setup(&router.Config{
		AuthHandler:    handler.NewAuthHandler(authService),
		UserHandler:    handler.NewUserHandler(userService),
		TourHandler:    handler.NewTourHandler(tourService),
		ReviewHandler:  handler.NewReviewHandler(reviewService),
		Authenticator:  authService,
		Authorizer:     authorizer,
		RateLimiter:    rateLimiter,
		Logger:         log,
		Tracer:         tel.Tracer,
		TrustedProxies: cfg.TrustedProxies,
		BodyLimit:      cfg.BodyLimitBytes,
		Development:    cfg.IsDevelopment(),
	})

	// Start email processor; it stops after the HTTP server has drained.
	emailProcessor.Start(ctx)
	defer func() {
		cancel()
		log.Info().Msg("stopping email processor")
		emailProcessor.Stop()
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return serve(srv, sigCh, shutdownTimeout, log)
}

const shutdownTimeout = 30 * time.Second

// serve runs srv until a signal arrives or serving fails, then drains open
// connections. A serve failure is returned after the drain.
func serve(srv *http.Server, sigCh <-chan os.Signal, timeout time.Duration, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case serveErr = <-errCh:
		log.Error().Err(serveErr).Msg("HTTP server failed")
		serveErr = fmt.Errorf("serve: %w", serveErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	log.Info().Msg("shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	return serveErr
}
