package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/api/handlers"
	"github.com/david-git-2/Wholesale-UK/internal/api/middleware"
)

// NewRouter creates and configures the Gin router
func NewRouter(deps *handlers.Deps, logger *zap.Logger) *gin.Engine {
	if deps.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))
	router.Use(middleware.SessionMiddleware(deps.Sessions, logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Wholesale UK Storefront API",
			"endpoints": []string{
				"GET /health",
				"POST /v1/auth/login",
				"GET /v1/catalog/:store/products",
				"GET /v1/carts/:store",
				"POST /v1/checkout",
				"GET /v1/orders",
				"GET /v1/uk/orders",
				"GET /v1/admin/stocklists/:id/aggregate",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		// Auth and session state
		auth := v1.Group("/auth")
		{
			auth.POST("/login", handlers.HandleLogin(deps, logger))
			auth.POST("/logout", handlers.HandleLogout(deps, logger))
			auth.GET("/me", handlers.HandleMe(deps, logger))
			auth.GET("/shipping", handlers.HandleGetShipping(deps, logger))
			auth.PUT("/shipping", handlers.HandleSaveShipping(deps, logger))
		}

		// Catalog feeds (no identity needed to browse)
		v1.GET("/catalog/:store/products", handlers.HandleGetCatalogProducts(deps, logger))
		v1.GET("/catalog/brands", handlers.HandleGetBrands(deps, logger))

		// Carts (device-scoped, no identity needed until checkout)
		carts := v1.Group("/carts/:store")
		{
			carts.GET("", handlers.HandleGetCart(deps, logger))
			carts.POST("/items", handlers.HandleAddToCart(deps, logger))
			carts.PATCH("/items/:id", handlers.HandlePatchCartLine(deps, logger))
			carts.DELETE("/items/:id", handlers.HandleRemoveCartLine(deps, logger))
			carts.DELETE("", handlers.HandleClearCart(deps, logger))
			carts.POST("/refresh-stock", handlers.HandleRefreshCartStock(deps, logger))
		}

		// Checkout and orders require a logged-in identity
		userRoutes := v1.Group("")
		userRoutes.Use(middleware.RequireUser())
		{
			userRoutes.POST("/checkout", handlers.HandleCheckout(deps, logger))
			userRoutes.POST("/uk/checkout", handlers.HandleUKCheckout(deps, logger))

			userRoutes.GET("/orders", handlers.HandleListOrders(deps, logger))
			userRoutes.GET("/orders/:id", handlers.HandleGetOrder(deps, logger))
			userRoutes.PUT("/orders/:id/items", handlers.HandleSaveOrderItems(deps, logger))
			userRoutes.POST("/orders/:id/confirm", handlers.HandleConfirmOrder(deps, logger))

			userRoutes.GET("/uk/orders", handlers.HandleUKListOrders(deps, logger))
			userRoutes.GET("/uk/orders/:id", handlers.HandleUKGetOrder(deps, logger))
			userRoutes.PATCH("/uk/orders/:id", handlers.HandleUKSaveOrder(deps, logger))
			userRoutes.PUT("/uk/orders/:id/items", handlers.HandleUKSaveItems(deps, logger))
			userRoutes.POST("/uk/orders/:id/items/delete", handlers.HandleUKDeleteItems(deps, logger))
			userRoutes.DELETE("/uk/orders/:id", handlers.HandleUKDeleteOrder(deps, logger))
			userRoutes.POST("/uk/orders/:id/submit", handlers.HandleUKSubmitOrder(deps, logger))
			userRoutes.POST("/uk/orders/:id/accept-offer", handlers.HandleUKAcceptOffer(deps, logger))
		}

		// Admin routes
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.RequireAdmin())
		{
			adminRoutes.POST("/orders/:id/status", handlers.HandleSetOrderStatus(deps, logger))
			adminRoutes.DELETE("/orders/:id", handlers.HandleDeleteOrder(deps, logger))
			adminRoutes.DELETE("/orders/:id/permanent", handlers.HandlePermanentDeleteOrder(deps, logger))

			adminRoutes.POST("/uk/orders/:id/status", handlers.HandleUKSetStatus(deps, logger))

			adminRoutes.GET("/stocklists/:id/aggregate", handlers.HandleGetAggregate(deps, logger))
			adminRoutes.POST("/stocklists/:id/aggregate", handlers.HandleSaveAggregate(deps, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
