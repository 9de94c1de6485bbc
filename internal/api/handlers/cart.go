package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/cart"
	"github.com/david-git-2/Wholesale-UK/internal/domain"
)

// cartView is the cart snapshot returned after every cart operation
type cartView struct {
	Lines         []domain.CartLine `json:"lines"`
	Count         int               `json:"count"`
	TotalPrice    float64           `json:"total_price"`
	TotalFinal    float64           `json:"total_final_commission"`
	HasViolations bool              `json:"has_stock_violations"`
}

func snapshotCart(s *cart.Store) cartView {
	return cartView{
		Lines:         s.Lines(),
		Count:         s.Count(),
		TotalPrice:    s.TotalPrice(),
		TotalFinal:    s.TotalFinalCommission(),
		HasViolations: s.HasStockViolations(),
	}
}

// HandleGetCart returns the cart snapshot for one storefront
func HandleGetCart(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := deps.cartFor(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, snapshotCart(store))
	}
}

// HandleAddToCart adds one unit of a product to the cart
func HandleAddToCart(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := deps.cartFor(c)
		if !ok {
			return
		}

		var product domain.Product
		if err := c.ShouldBindJSON(&product); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		if product.Key() == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "product needs an id, sku or name"})
			return
		}

		if err := store.Add(product); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, snapshotCart(store))
	}
}

// CartLinePatch adjusts one cart line: a quantity delta (in line steps), a
// packaging switch, or both
type CartLinePatch struct {
	Delta     *int    `json:"delta,omitempty"`
	Packaging *string `json:"packaging,omitempty"`
}

// HandlePatchCartLine applies a quantity delta and/or packaging change
func HandlePatchCartLine(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := deps.cartFor(c)
		if !ok {
			return
		}

		var patch CartLinePatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		id := c.Param("id")
		if patch.Packaging != nil {
			if err := store.SetPackaging(id, *patch.Packaging); err != nil {
				respondError(c, logger, err)
				return
			}
		}
		if patch.Delta != nil && *patch.Delta != 0 {
			if err := store.ChangeQuantity(id, *patch.Delta); err != nil {
				respondError(c, logger, err)
				return
			}
		}
		c.JSON(http.StatusOK, snapshotCart(store))
	}
}

// HandleRemoveCartLine deletes one line
func HandleRemoveCartLine(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := deps.cartFor(c)
		if !ok {
			return
		}
		if err := store.Remove(c.Param("id")); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, snapshotCart(store))
	}
}

// HandleClearCart empties the cart
func HandleClearCart(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := deps.cartFor(c)
		if !ok {
			return
		}
		if err := store.Clear(); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, snapshotCart(store))
	}
}

// HandleRefreshCartStock re-resolves stock for every line and re-clamps
func HandleRefreshCartStock(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := deps.cartFor(c)
		if !ok {
			return
		}
		if err := store.RefreshStock(); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, snapshotCart(store))
	}
}
