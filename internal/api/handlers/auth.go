package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/domain"
)

// LoginRequest is the login payload
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
}

// HandleLogin runs the remote access check and caches the identity
func HandleLogin(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		user, err := deps.Sessions.Login(c.Request.Context(), req.Email)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// HandleLogout drops the cached identity and token
func HandleLogout(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Sessions.Logout()
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// HandleMe returns the cached identity, if any
func HandleMe(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := deps.Sessions.CurrentUser()
		if !ok {
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// HandleSaveShipping remembers the shipping address for the next checkout
func HandleSaveShipping(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var shipping domain.ShippingAddress
		if err := c.ShouldBindJSON(&shipping); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		if err := deps.Sessions.SaveShipping(shipping); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// HandleGetShipping returns the remembered shipping address
func HandleGetShipping(deps *Deps, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipping, ok := deps.Sessions.Shipping()
		if !ok {
			c.JSON(http.StatusOK, gin.H{"shipping": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"shipping": shipping})
	}
}
