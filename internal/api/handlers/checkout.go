package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
)

// CheckoutRequest is the primary-storefront checkout payload. An omitted
// shipping address falls back to the remembered one.
type CheckoutRequest struct {
	Shipping *domain.ShippingAddress `json:"shipping,omitempty"`
}

// HandleCheckout submits the primary cart as an order
func HandleCheckout(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := deps.Carts[StoreKBeauty]
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storefront not configured"})
			return
		}

		// An absent body is a valid request: everything falls back to
		// remembered values
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		var shipping domain.ShippingAddress
		if req.Shipping != nil {
			shipping = *req.Shipping
		} else if saved, ok := deps.Sessions.Shipping(); ok {
			shipping = saved
		}

		orderID, err := store.Checkout(c.Request.Context(), deps.API, currentUser(c), shipping)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		// Remember the address that just worked for next time
		if err := deps.Sessions.SaveShipping(shipping); err != nil {
			logger.Warn("Failed to remember shipping address", zap.Error(err))
		}

		c.JSON(http.StatusOK, gin.H{"order_id": orderID})
	}
}

// UKCheckoutRequest is the UK checkout payload
type UKCheckoutRequest struct {
	OrderName string `json:"order_name"`
}

// HandleUKCheckout submits the UK cart as a draft UK order
func HandleUKCheckout(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := deps.Carts[StoreUK]
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storefront not configured"})
			return
		}

		// An absent body means the default order name
		var req UKCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		orderID, err := store.UKCheckout(c.Request.Context(), deps.API, currentUser(c), req.OrderName)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": orderID})
	}
}
