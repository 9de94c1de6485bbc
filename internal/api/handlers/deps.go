// Package handlers holds the gin HTTP handlers. Each handler is a factory
// taking its dependencies and a logger and returning a gin.HandlerFunc,
// so the router wires everything in one place.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/david-git-2/Wholesale-UK/internal/aggregate"
	"github.com/david-git-2/Wholesale-UK/internal/api/middleware"
	"github.com/david-git-2/Wholesale-UK/internal/cart"
	"github.com/david-git-2/Wholesale-UK/internal/config"
	"github.com/david-git-2/Wholesale-UK/internal/domain"
	"github.com/david-git-2/Wholesale-UK/internal/feed"
	"github.com/david-git-2/Wholesale-UK/internal/orderapi"
	"github.com/david-git-2/Wholesale-UK/internal/session"
	"github.com/david-git-2/Wholesale-UK/internal/workflow"
	"github.com/david-git-2/Wholesale-UK/pkg/errors"
)

// Storefront names used in routes
const (
	StoreKBeauty = "kbeauty"
	StoreUK      = "uk"
)

// Deps carries every service the handlers need
type Deps struct {
	Config    *config.Config
	Sessions  *session.Manager
	Carts     map[string]*cart.Store // keyed by storefront name
	Feed      *feed.Client
	API       *orderapi.Client
	Orders    *workflow.Service
	UKOrders  *workflow.UKService
	Aggregate *aggregate.Service
}

// cartFor picks the storefront cart from the :store route param
func (d *Deps) cartFor(c *gin.Context) (*cart.Store, bool) {
	store, ok := d.Carts[c.Param("store")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown storefront: " + c.Param("store")})
		return nil, false
	}
	return store, true
}

// currentUser reads the identity placed in context by the session middleware
func currentUser(c *gin.Context) *domain.User {
	user, _ := middleware.GetUserFromContext(c)
	return user
}

// respondError maps typed service errors to HTTP status codes. Remote API
// rejections surface the server message verbatim.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": e.Error()})
	case *errors.ErrForbiddenEdit:
		c.JSON(http.StatusForbidden, gin.H{"error": e.Error()})
	case *errors.ErrValidation:
		resp := gin.H{"error": e.Error()}
		if len(e.Fields) > 0 {
			resp["fields"] = e.Fields
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
	case *errors.ErrOutOfStock:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrStockLimit:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrInvalidStateTransition:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrRemote:
		c.JSON(http.StatusBadGateway, gin.H{"error": e.Error()})
	default:
		logger.Error("Unhandled error", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
