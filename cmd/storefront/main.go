package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/aggregate"
	"github.com/david-git-2/Wholesale-UK/internal/api"
	"github.com/david-git-2/Wholesale-UK/internal/api/handlers"
	"github.com/david-git-2/Wholesale-UK/internal/cart"
	"github.com/david-git-2/Wholesale-UK/internal/config"
	"github.com/david-git-2/Wholesale-UK/internal/feed"
	"github.com/david-git-2/Wholesale-UK/internal/orderapi"
	"github.com/david-git-2/Wholesale-UK/internal/pricing"
	"github.com/david-git-2/Wholesale-UK/internal/repository/localstore"
	"github.com/david-git-2/Wholesale-UK/internal/session"
	"github.com/david-git-2/Wholesale-UK/internal/stock"
	"github.com/david-git-2/Wholesale-UK/internal/workflow"
)

const stockReloadInterval = 10 * time.Minute

func main() {
	// Load .env if present; real env always wins
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	logger.Info("Starting storefront server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
	)

	// Device-scoped state store (the local-storage analog)
	store, err := localstore.New(cfg.Storage.Dir, logger)
	if err != nil {
		logger.Fatal("Failed to open state store", zap.Error(err))
	}

	// Outbound clients
	feedClient := feed.NewClient(logger)
	apiClient := orderapi.NewClient(cfg.API.URL, logger)

	// Stock resolvers, one per storefront feed
	kbeautyStock := stock.NewResolver(feedClient, cfg.Feeds.ProductDataURL, logger)
	ukStock := stock.NewResolver(feedClient, cfg.Feeds.UKProductURL, logger)

	// Pricing engines: fixed unit price for the primary storefront, the
	// box/poly price swap for the UK storefront
	kbeautyEngine := pricing.NewEngine(cfg.Commission, pricing.PriceFixed{})
	ukEngine := pricing.NewEngine(cfg.Commission, pricing.PriceByPackaging{})

	// Carts
	carts := map[string]*cart.Store{
		handlers.StoreKBeauty: cart.NewStore(store, cfg.Storage.CartKey, kbeautyStock, kbeautyEngine, logger),
		handlers.StoreUK:      cart.NewStore(store, cfg.Storage.UKCartKey, ukStock, ukEngine, logger),
	}

	// Services
	sessions := session.NewManager(store, apiClient, cfg.Storage, logger)
	orders := workflow.NewService(apiClient, logger)
	ukOrders := workflow.NewUKService(apiClient, logger)
	agg := aggregate.NewService(apiClient, logger)

	// Stock reload: once on startup, then periodically; carts re-clamp after
	// every rebuild
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go runStockReloadLoop(rootCtx, []*stock.Resolver{kbeautyStock, ukStock}, carts, logger)

	// Initialize router
	deps := &handlers.Deps{
		Config:    cfg,
		Sessions:  sessions,
		Carts:     carts,
		Feed:      feedClient,
		API:       apiClient,
		Orders:    orders,
		UKOrders:  ukOrders,
		Aggregate: agg,
	}
	router := api.NewRouter(deps, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// runStockReloadLoop rebuilds every stock index on startup and on an
// interval, then re-clamps cart quantities against the fresh figures.
func runStockReloadLoop(ctx context.Context, resolvers []*stock.Resolver, carts map[string]*cart.Store, logger *zap.Logger) {
	reload := func() {
		for _, r := range resolvers {
			r.Load(ctx)
		}
		for name, c := range carts {
			if err := c.RefreshStock(); err != nil {
				logger.Warn("Cart stock refresh failed", zap.String("store", name), zap.Error(err))
			}
		}
	}

	reload()
	ticker := time.NewTicker(stockReloadInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reload()
		}
	}
}
