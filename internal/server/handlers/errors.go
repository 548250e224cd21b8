package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/repository/mongodb"
	"github.com/mamadbah2/brooder/internal/service/auth"
	"github.com/mamadbah2/brooder/internal/service/calls"
	"github.com/mamadbah2/brooder/internal/service/intake"
	"github.com/mamadbah2/brooder/internal/service/lifecycle"
	"github.com/mamadbah2/brooder/internal/service/stock"
)

// IdentityKey is the gin context key the auth middleware stores the verified
// caller under.
const IdentityKey = "identity"

// CallerIdentity returns the authenticated caller set by the auth middleware.
func CallerIdentity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// respondError maps service errors onto HTTP status codes. Unknown errors are
// logged and reported as 500 without leaking internals.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var illegal *lifecycle.IllegalTransitionError
	var insufficient *stock.InsufficientStockError

	switch {
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "request not found"})
	case errors.As(err, &illegal):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": illegal.Error()})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": insufficient.Error()})
	case errors.Is(err, intake.ErrOpenFeedRequest):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, intake.ErrInvalidSubmission),
		errors.Is(err, calls.ErrInvalidCall),
		errors.Is(err, auth.ErrInvalidSignup),
		errors.Is(err, stock.ErrInvalidStock):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, mongodb.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "service temporarily unavailable"})
	default:
		logger.Error("unhandled request error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}
