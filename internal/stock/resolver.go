// Package stock resolves a product identifier to its available quantity.
// The index registers every product under id, sku and name, and is rebuilt in
// full from the latest feed fetch; it is never merged incrementally.
package stock

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
)

// Feed is the slice of the feed client the resolver needs
type Feed interface {
	FetchProducts(ctx context.Context, url string) ([]domain.Product, error)
}

// Resolver maps id/sku/name keys to available stock
type Resolver struct {
	feed    Feed
	feedURL string
	logger  *zap.Logger

	mu    sync.RWMutex
	index map[string]int
}

// NewResolver creates a stock resolver for one feed URL
func NewResolver(feed Feed, feedURL string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		feed:    feed,
		feedURL: feedURL,
		logger:  logger,
		index:   map[string]int{},
	}
}

// Load rebuilds the index from a full feed fetch. A failed fetch yields an
// empty index (every lookup resolves to 0) and never returns an error; the
// storefront keeps working, every add just gets rejected as out of stock.
func (r *Resolver) Load(ctx context.Context) {
	products, err := r.feed.FetchProducts(ctx, r.feedURL)
	if err != nil {
		r.logger.Warn("Failed to load stock feed, resetting index", zap.Error(err))
		r.mu.Lock()
		r.index = map[string]int{}
		r.mu.Unlock()
		return
	}

	index := make(map[string]int, len(products)*3)
	for _, p := range products {
		for _, key := range []string{p.ID, p.SKU, p.Name} {
			key = strings.TrimSpace(key)
			if key != "" {
				index[key] = p.StockQuantity
			}
		}
	}

	r.mu.Lock()
	r.index = index
	r.mu.Unlock()
	r.logger.Info("Stock index rebuilt", zap.Int("products", len(products)), zap.Int("keys", len(index)))
}

// StockForKey returns the available quantity for one key, 0 for missing/blank
func (r *Resolver) StockForKey(key string) int {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index[key]
}

// BestStockForItem tries id, then sku, then name, returning the first hit
func (r *Resolver) BestStockForItem(line domain.CartLine) int {
	if n := r.StockForKey(line.ID); n > 0 {
		return n
	}
	if n := r.StockForKey(line.SKU); n > 0 {
		return n
	}
	return r.StockForKey(line.Name)
}
