//go:build api

// Package testserver provides a fully wired test server for API integration tests.
package testserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"tours-api/internal/authz"
	"tours-api/internal/cache"
	"tours-api/internal/handler"
	"tours-api/internal/logger"
	"tours-api/internal/middleware"
	"tours-api/internal/queue"
	"tours-api/internal/repository"
	"tours-api/internal/router"
	"tours-api/internal/service"
	"tours-api/internal/storage"
	"tours-api/pkg/auth"
	"tours-api/test/api/testdb"
)

const (
	// TestJWTSecret is the JWT secret used in tests.
	TestJWTSecret = "test-secret-key-for-api-tests"
	// TestJWTExpiry is the token lifetime used in tests.
	TestJWTExpiry = 15 * time.Minute
	// TestResetTTL is the password reset token lifetime used in tests.
	TestResetTTL = 10 * time.Minute
	// TestDBName is the database name used in tests.
	TestDBName = "test_api"
	// TestPublicURL prefixes links in outgoing mail.
	TestPublicURL = "http://tours.test"
	// TestRateLimit is high enough that only the rate limit test reaches it.
	TestRateLimit = 1000
)

// TestServer holds all dependencies for API integration tests.
type TestServer struct {
	// Router is the Gin engine for making HTTP requests.
	Router *gin.Engine

	// Containers
	MongoDB *testdb.MongoContainer
	Redis   *testdb.RedisContainer
	MinIO   *testdb.MinIOContainer

	// Repositories (for direct database access in tests)
	UserRepo   repository.UserRepository
	TourRepo   repository.TourRepository
	ReviewRepo repository.ReviewRepository

	JWTManager *auth.JWTManager

	// Outbox records every email the API sends.
	Outbox *Outbox

	redisCache     *cache.Redis
	emailProcessor *queue.Processor
	cancel         context.CancelFunc
}

// New creates a new test server with all dependencies wired up.
func New(ctx context.Context) (*TestServer, error) {
	gin.SetMode(gin.TestMode)

	mongoDB, err := testdb.SetupMongoDB(ctx, TestDBName)
	if err != nil {
		return nil, err
	}

	redisContainer, err := testdb.SetupRedis(ctx)
	if err != nil {
		_ = mongoDB.Cleanup(ctx)
		return nil, err
	}

	minioContainer, err := testdb.SetupMinIO(ctx)
	if err != nil {
		_ = mongoDB.Cleanup(ctx)
		_ = redisContainer.Cleanup(ctx)
		return nil, err
	}

	log := logger.Nop()

	redisCache, err := cache.NewRedis(redisContainer.URI, log)
	if err != nil {
		_ = mongoDB.Cleanup(ctx)
		_ = redisContainer.Cleanup(ctx)
		_ = minioContainer.Cleanup(ctx)
		return nil, err
	}

	s3Client, err := storage.NewS3Client(ctx, minioContainer.Config)
	if err != nil {
		_ = mongoDB.Cleanup(ctx)
		_ = redisContainer.Cleanup(ctx)
		_ = minioContainer.Cleanup(ctx)
		return nil, err
	}

	jwtManager := auth.NewJWTManager(TestJWTSecret, TestJWTExpiry)
	outbox := &Outbox{}

	// Repository layer
	userRepo := repository.NewUserRepository(mongoDB.Database)
	tourRepo := repository.NewTourRepository(mongoDB.Database)
	reviewRepo := repository.NewReviewRepository(mongoDB.Database)

	authorizer := authz.DefaultPolicy

	// Welcome emails go through the real queue and processor
	emailQueue := queue.NewMemoryQueue(100)
	emailProcessor := queue.NewProcessor(emailQueue, outbox, log, 1)

	// Service layer
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     userRepo,
		Cache:        redisCache,
		JWTManager:   jwtManager,
		Mailer:       outbox,
		EmailQueue:   emailQueue,
		ResetTTL:     TestResetTTL,
		UserCacheTTL: time.Minute,
		PublicURL:    TestPublicURL,
	})
	userService := service.NewUserService(userRepo, redisCache, s3Client)
	tourService := service.NewTourService(service.TourServiceConfig{
		TourRepo:   tourRepo,
		ReviewRepo: reviewRepo,
		UserRepo:   userRepo,
		Authorizer: authorizer,
		Storage:    s3Client,
	})
	reviewService := service.NewReviewService(reviewRepo, tourRepo, authorizer)

	r := router.Setup(&router.Config{
		AuthHandler:   handler.NewAuthHandler(authService),
		UserHandler:   handler.NewUserHandler(userService),
		TourHandler:   handler.NewTourHandler(tourService),
		ReviewHandler: handler.NewReviewHandler(reviewService),
		Authenticator: authService,
		Authorizer:    authorizer,
		RateLimiter:   middleware.NewRateLimiter(redisContainer.Client, TestRateLimit, time.Hour),
		Logger:        log,
		BodyLimit:     10 * 1024,
	})

	procCtx, cancel := context.WithCancel(context.Background())
	emailProcessor.Start(procCtx)

	return &TestServer{
		Router:         r,
		MongoDB:        mongoDB,
		Redis:          redisContainer,
		MinIO:          minioContainer,
		UserRepo:       userRepo,
		TourRepo:       tourRepo,
		ReviewRepo:     reviewRepo,
		JWTManager:     jwtManager,
		Outbox:         outbox,
		redisCache:     redisCache,
		emailProcessor: emailProcessor,
		cancel:         cancel,
	}, nil
}

// Cleanup stops the email processor and terminates all containers.
func (ts *TestServer) Cleanup(ctx context.Context) {
	ts.cancel()
	ts.emailProcessor.Stop()
	ts.redisCache.Close()

	if ts.MinIO != nil {
		_ = ts.MinIO.Cleanup(ctx)
	}
	if ts.Redis != nil {
		_ = ts.Redis.Cleanup(ctx)
	}
	if ts.MongoDB != nil {
		_ = ts.MongoDB.Cleanup(ctx)
	}
}
