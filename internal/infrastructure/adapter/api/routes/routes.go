package routes

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by SetupRoutes
type Handlers struct {
	User        *handler.UserHandler
	Transaction *handler.TransactionHandler
	Health      *handler.HealthHandler
	// Metrics serves /metrics when set
	Metrics http.Handler
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", h.Health.Health)
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	userRoutes := router.Group("/users")
	{
		userRoutes.GET("", h.User.ListUsers)
		userRoutes.POST("", h.User.CreateUser)
		userRoutes.GET("/:id", h.User.GetUser)
		userRoutes.DELETE("/:id", h.User.DeleteUser)

		userRoutes.POST("/:id/earn", h.Transaction.Earn)
		userRoutes.POST("/:id/redeem", h.Transaction.Redeem)
		userRoutes.GET("/:id/transactions", h.Transaction.ListUserTransactions)
	}

	router.GET("/transactions/:id", h.Transaction.GetTransaction)
}

// MiddlewareOptions selects the optional middlewares
type MiddlewareOptions struct {
	// Metrics records request metrics when set
	Metrics middleware.HTTPMetrics
	// RateLimiter throttles clients when set
	RateLimiter *middleware.RateLimiter
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, opts MiddlewareOptions) {
	// Order matters: the request ID must exist before anything logs
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
	}
	router.Use(middleware.CORS())
	if opts.RateLimiter != nil {
		router.Use(opts.RateLimiter.Handler())
	}
}
