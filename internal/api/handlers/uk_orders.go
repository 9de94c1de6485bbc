package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/internal/workflow"
)

// HandleUKListOrders lists UK orders, optionally filtered by ?status and
// capped by ?limit
func HandleUKListOrders(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		orders, err := deps.UKOrders.List(c.Request.Context(), currentUser(c), domain.UKOrderStatus(c.Query("status")), limit)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
	}
}

// HandleUKGetOrder fetches one UK order with items and the caller's editable
// field set so the console knows what to render enabled
func HandleUKGetOrder(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		resp, err := deps.UKOrders.Get(c.Request.Context(), user, c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		editable := workflow.UKEditableFields(user, resp.Order)
		fields := make([]string, 0, len(editable))
		for f := range editable {
			fields = append(fields, string(f))
		}
		c.JSON(http.StatusOK, gin.H{
			"order":           resp.Order,
			"items":           resp.Items,
			"editable_fields": fields,
		})
	}
}

// HandleUKSaveOrder patches the order header
func HandleUKSaveOrder(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch domain.UKOrderPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		resp, err := deps.UKOrders.SaveOrder(c.Request.Context(), currentUser(c), c.Param("id"), patch)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": resp.Order, "items": resp.Items})
	}
}

// UKSaveItemsRequest carries per-item patches
type UKSaveItemsRequest struct {
	Items []domain.UKItemPatch `json:"items" binding:"required,min=1"`
}

// HandleUKSaveItems applies per-item patches after the field policy check
func HandleUKSaveItems(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UKSaveItemsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		resp, err := deps.UKOrders.SaveItems(c.Request.Context(), currentUser(c), c.Param("id"), req.Items)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": resp.Order, "items": resp.Items})
	}
}

// UKDeleteItemsRequest carries the barcodes to remove
type UKDeleteItemsRequest struct {
	Barcodes []string `json:"barcodes" binding:"required,min=1"`
}

// HandleUKDeleteItems removes items by barcode
func HandleUKDeleteItems(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UKDeleteItemsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		resp, err := deps.UKOrders.DeleteItems(c.Request.Context(), currentUser(c), c.Param("id"), req.Barcodes)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": resp.Order, "items": resp.Items})
	}
}

// HandleUKDeleteOrder deletes a UK order and all its items
func HandleUKDeleteOrder(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.UKOrders.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// HandleUKSubmitOrder hands a draft over for pricing
func HandleUKSubmitOrder(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := deps.UKOrders.Submit(c.Request.Context(), currentUser(c), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": resp.Order, "items": resp.Items})
	}
}

// HandleUKAcceptOffer locks in the priced offer
func HandleUKAcceptOffer(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := deps.UKOrders.AcceptOffer(c.Request.Context(), currentUser(c), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": resp.Order, "items": resp.Items})
	}
}

// UKSetStatusRequest carries the target UK status
type UKSetStatusRequest struct {
	Status domain.UKOrderStatus `json:"status" binding:"required"`
}

// HandleUKSetStatus applies a UK status transition
func HandleUKSetStatus(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UKSetStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		resp, err := deps.UKOrders.SetStatus(c.Request.Context(), currentUser(c), c.Param("id"), req.Status)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": resp.Order, "items": resp.Items})
	}
}
