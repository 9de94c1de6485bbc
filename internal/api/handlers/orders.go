package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/internal/workflow"
)

// HandleListOrders lists the user's orders with optional filter/search/sort
// query params: status, q, sort (newest|oldest|total_desc|total_asc)
func HandleListOrders(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := deps.Orders.List(c.Request.Context(), currentUser(c), workflow.ListOptions{
			Status: c.Query("status"),
			Query:  c.Query("q"),
			Sort:   c.Query("sort"),
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
	}
}

// HandleGetOrder fetches one order with items and the admin next-status
// ladder for the console
func HandleGetOrder(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := deps.Orders.Get(c.Request.Context(), currentUser(c), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"order":         order,
			"next_statuses": order.Status.AllowedAdminNextStatuses(),
		})
	}
}

// SaveOrderItemsRequest carries the edited line items
type SaveOrderItemsRequest struct {
	Items []domain.OrderItem `json:"items" binding:"required,min=1"`
}

// HandleSaveOrderItems replaces an order's items after the policy check
func HandleSaveOrderItems(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaveOrderItemsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		order, err := deps.Orders.SaveItems(c.Request.Context(), currentUser(c), c.Param("id"), req.Items)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

// HandleConfirmOrder applies the one customer transition, Pending to Confirmed
func HandleConfirmOrder(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := deps.Orders.Confirm(c.Request.Context(), currentUser(c), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

// SetStatusRequest carries the target status
type SetStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// HandleSetOrderStatus applies an admin status transition
func HandleSetOrderStatus(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		order, err := deps.Orders.SetStatus(c.Request.Context(), currentUser(c), c.Param("id"), req.Status)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}

// HandleDeleteOrder soft-deletes an order
func HandleDeleteOrder(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Orders.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// HandlePermanentDeleteOrder removes the order row entirely. Requires
// ?confirm=true; there is no undo.
func HandlePermanentDeleteOrder(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		confirmed := c.Query("confirm") == "true"
		if err := deps.Orders.PermanentDelete(c.Request.Context(), currentUser(c), c.Param("id"), confirmed); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
