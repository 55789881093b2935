// Package router sets up HTTP routes for the API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/trace"

	"tours-api/internal/authz"
	apperrors "tours-api/internal/errors"
	"tours-api/internal/handler"
	"tours-api/internal/logger"
	"tours-api/internal/middleware"
	_ "tours-api/swagger" // Import generated swagger docs
)

// Config holds all dependencies needed to set up routes.
type Config struct {
	AuthHandler   *handler.AuthHandler
	UserHandler   *handler.UserHandler
	TourHandler   *handler.TourHandler
	ReviewHandler *handler.ReviewHandler

	Authenticator middleware.Authenticator
	Authorizer    authz.Authorizer
	RateLimiter   *middleware.RateLimiter

	Logger *logger.Logger
	// Tracer is optional; requests are not traced without it.
	Tracer trace.Tracer

	// TrustedProxies may set X-Forwarded-For. Nil trusts none, so client
	// IPs used for rate limiting come from the socket.
	TrustedProxies []string

	BodyLimit   int64
	Development bool
}

// Setup creates and configures the Gin router.
func Setup(cfg *Config) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Error().Err(err).Msg("invalid trusted proxies, trusting none")
		_ = r.SetTrustedProxies(nil)
	}

	// Global middleware. ErrorHandler wraps Recovery so recovered panics are
	// rendered like any other error.
	if cfg.Tracer != nil {
		r.Use(middleware.Tracing(cfg.Tracer))
	}
	r.Use(
		middleware.RequestLogger(log),
		middleware.ErrorHandler(cfg.Development),
		middleware.Recovery(),
		middleware.CORS(),
		middleware.SecurityHeaders(cfg.Development),
	)
	if cfg.BodyLimit > 0 {
		r.Use(middleware.BodyLimit(cfg.BodyLimit))
	}
	r.Use(middleware.Sanitize())

	// Swagger docs at /docs
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.ErrRouteNotFound)
	})

	protect := middleware.Protect(cfg.Authenticator)
	identify := middleware.Identify(cfg.Authenticator)
	restrictTo := func(action string) gin.HandlerFunc {
		return middleware.RestrictTo(cfg.Authorizer, action)
	}

	api := r.Group("/api")
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.Handler())
	}

	// API v1
	v1 := api.Group("/v1")
	{
		tours := v1.Group("/tours")
		{
			// Public reads; the caller's role decides whether secret tours show up
			tours.GET("", identify, cfg.TourHandler.ListTours)
			tours.GET("/top-5-cheap", identify, cfg.TourHandler.TopCheapTours)
			tours.GET("/tour-stats", identify, cfg.TourHandler.GetTourStats)
			tours.GET("/tours-within/:distance/center/:latlng/unit/:unit", identify, cfg.TourHandler.GetToursWithin)
			tours.GET("/distances/:latlng/unit/:unit", identify, cfg.TourHandler.GetDistances)
			tours.GET("/:id", identify, cfg.TourHandler.GetTour)

			tours.GET("/monthly-plan/:year", protect, restrictTo(authz.ActionTourPlan), cfg.TourHandler.GetMonthlyPlan)

			tours.POST("", protect, restrictTo(authz.ActionTourWrite), cfg.TourHandler.CreateTour)
			tours.PATCH("/:id", protect, restrictTo(authz.ActionTourWrite), cfg.TourHandler.UpdateTour)
			tours.DELETE("/:id", protect, restrictTo(authz.ActionTourWrite), cfg.TourHandler.DeleteTour)
			tours.POST("/:id/images/upload-url", protect, restrictTo(authz.ActionTourWrite), cfg.TourHandler.CreateImageUploadURL)

			// Reviews of one tour
			tourReviews := tours.Group("/:id/reviews", protect, middleware.NestedTour("id"))
			{
				tourReviews.GET("", cfg.ReviewHandler.ListReviews)
				tourReviews.POST("", restrictTo(authz.ActionReviewCreate), cfg.ReviewHandler.CreateReview)
			}
		}

		users := v1.Group("/users")
		{
			// Public auth routes
			users.POST("/signup", cfg.AuthHandler.Signup)
			users.POST("/login", cfg.AuthHandler.Login)
			users.POST("/forgot-password", cfg.AuthHandler.ForgotPassword)
			users.PATCH("/reset-password/:token", cfg.AuthHandler.ResetPassword)

			// Logged in user
			me := users.Group("", protect)
			{
				me.PATCH("/update-my-password", cfg.AuthHandler.UpdatePassword)
				me.GET("/me", cfg.UserHandler.GetMe)
				me.PATCH("/update-me", cfg.UserHandler.UpdateMe)
				me.DELETE("/delete-me", cfg.UserHandler.DeleteMe)
				me.POST("/me/photo-upload-url", cfg.UserHandler.CreatePhotoUploadURL)
			}

			// Administration
			admin := users.Group("", protect, restrictTo(authz.ActionUserAdmin))
			{
				admin.GET("", cfg.UserHandler.ListUsers)
				admin.GET("/:id", cfg.UserHandler.GetUser)
				admin.PATCH("/:id", cfg.UserHandler.UpdateUser)
				admin.PATCH("/:id/role", cfg.UserHandler.UpdateRole)
				admin.DELETE("/:id", cfg.UserHandler.DeleteUser)
			}
		}

		reviews := v1.Group("/reviews", protect)
		{
			reviews.GET("", cfg.ReviewHandler.ListReviews)
			reviews.POST("", restrictTo(authz.ActionReviewCreate), cfg.ReviewHandler.CreateReview)
			reviews.GET("/:id", cfg.ReviewHandler.GetReview)
			reviews.PATCH("/:id", restrictTo(authz.ActionReviewModify), cfg.ReviewHandler.UpdateReview)
			reviews.DELETE("/:id", restrictTo(authz.ActionReviewModify), cfg.ReviewHandler.DeleteReview)
		}
	}

	return r
}
