package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/aggregate"
)

// HandleGetAggregate loads the stocklist roll-up. ?useShipped=true switches
// the totals to shipped quantities.
func HandleGetAggregate(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		useShipped := c.Query("useShipped") == "true"
		view, err := deps.Aggregate.Load(c.Request.Context(), currentUser(c), c.Param("id"), useShipped)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// AggregateSaveRequest carries the edited roll-up cells
type AggregateSaveRequest struct {
	Edits      []aggregate.CellEdit `json:"edits" binding:"required,min=1"`
	UseShipped bool                 `json:"useShipped"`
}

// HandleSaveAggregate applies roll-up edits (one item-update call per order)
// and returns the reloaded view
func HandleSaveAggregate(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AggregateSaveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		view, err := deps.Aggregate.Save(c.Request.Context(), currentUser(c), c.Param("id"), req.Edits, req.UseShipped)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
