package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
)

// HandleGetCatalogProducts serves the storefront product list: the feed
// document fetched fresh, filtered by optional brand and search query.
func HandleGetCatalogProducts(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		url := deps.Config.Feeds.ProductDataURL
		if c.Param("store") == StoreUK {
			url = deps.Config.Feeds.UKProductURL
		}

		products, err := deps.Feed.FetchProducts(c.Request.Context(), url)
		if err != nil {
			logger.Warn("Product feed fetch failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "product feed unavailable"})
			return
		}

		brand := strings.TrimSpace(c.Query("brand"))
		query := strings.ToLower(strings.TrimSpace(c.Query("q")))

		filtered := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if brand != "" && !strings.EqualFold(p.Brand, brand) {
				continue
			}
			if query != "" {
				haystack := strings.ToLower(p.Name + " " + p.SKU + " " + p.ID)
				if !strings.Contains(haystack, query) {
					continue
				}
			}
			filtered = append(filtered, p)
		}

		c.JSON(http.StatusOK, gin.H{
			"products": filtered,
			"count":    len(filtered),
		})
	}
}

// HandleGetBrands serves the brand list feed
func HandleGetBrands(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		brands, err := deps.Feed.FetchBrands(c.Request.Context(), deps.Config.Feeds.BrandURL)
		if err != nil {
			logger.Warn("Brand feed fetch failed", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "brand feed unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"brands": brands})
	}
}
