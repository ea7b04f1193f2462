// Package server assembles the HTTP surface: middleware, the /api routes,
// /health and /metrics.
package server

import (
	"context"
	"net/http"
	"time"

	"catering_store/internal/cache"
	"catering_store/internal/handler"
	"catering_store/internal/metrics"
	"catering_store/internal/middleware"
	"catering_store/internal/repository"
	"catering_store/internal/service"
	"catering_store/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Options carries the settings the router needs from the process config
type Options struct {
	JWTSecret         string
	TokenTTL          time.Duration
	VerifyOrderPrices bool
	RecentOrdersLimit int
	CORSOrigin        string
}

// NewRouter wires services and handlers onto store. A nil productCache disables caching.
func NewRouter(store *repository.Store, productCache cache.ProductCache, opts Options, log *logrus.Logger) *gin.Engine {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = utils.DefaultTokenTTL
	}
	jwtUtil := utils.NewJWTUtil(opts.JWTSecret, opts.TokenTTL)

	authService := service.NewAuthService(store.Users, jwtUtil, log)
	productService := service.NewProductService(store.Products, productCache, log)
	orderService := service.NewOrderService(store.Orders, store.Products, store.Users, service.OrderOptions{
		VerifyPrices: opts.VerifyOrderPrices,
		RecentLimit:  opts.RecentOrdersLimit,
	}, log)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(),
		middleware.CORS(opts.CORSOrigin),
		metrics.Middleware(),
	)

	authMW := middleware.JWTAuthMiddleware(authService)
	adminMW := middleware.AdminMiddleware()

	api := router.Group("/api")
	handler.NewAuthHandler(authService).RegisterAuthRoutes(api)
	handler.NewUserHandler(authService).RegisterUserRoutes(api, authMW)
	handler.NewProductHandler(productService).RegisterProductRoutes(api, authMW, adminMW)
	handler.NewOrderHandler(orderService).RegisterOrderRoutes(api, authMW, adminMW)

	router.GET("/health", healthHandler(store))
	router.GET("/metrics", metrics.Handler())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	return router
}

func healthHandler(store *repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
