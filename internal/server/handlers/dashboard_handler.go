package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/service/reporting"
)

// DashboardHandler serves the per-role dashboard statistics.
type DashboardHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc *reporting.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// Manager returns the management dashboard projection.
func (h *DashboardHandler) Manager(c *gin.Context) {
	stats, err := h.svc.ManagerStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// Farmer returns the authenticated farmer's own statistics.
func (h *DashboardHandler) Farmer(c *gin.Context) {
	caller, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	stats, err := h.svc.FarmerStats(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// Sales returns the sales representative dashboard projection.
func (h *DashboardHandler) Sales(c *gin.Context) {
	stats, err := h.svc.SalesRepStats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
