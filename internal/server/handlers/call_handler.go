package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/domain/models"
	"github.com/mamadbah2/brooder/internal/service/calls"
)

// CallHandler exposes the sales-rep call log.
type CallHandler struct {
	svc    *calls.Service
	logger *zap.Logger
}

// NewCallHandler constructs the HTTP handler adapter.
func NewCallHandler(svc *calls.Service, logger *zap.Logger) *CallHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallHandler{svc: svc, logger: logger}
}

type logCallPayload struct {
	FarmerName string    `json:"farmer_name" binding:"required"`
	Phone      string    `json:"phone" binding:"required"`
	CallDate   time.Time `json:"call_date"`
	Outcome    string    `json:"outcome" binding:"required"`
	Notes      string    `json:"notes"`
}

// Create records one contact attempt for the authenticated sales rep.
func (h *CallHandler) Create(c *gin.Context) {
	caller, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	var payload logCallPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid call log payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	log, err := h.svc.LogCall(c.Request.Context(), calls.LogCallInput{
		SalesRepID: caller.UserID,
		FarmerName: payload.FarmerName,
		Phone:      payload.Phone,
		CallDate:   payload.CallDate,
		Outcome:    models.CallOutcome(payload.Outcome),
		Notes:      payload.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "call": log})
}

// Recent lists the authenticated sales rep's latest calls.
func (h *CallHandler) Recent(c *gin.Context) {
	caller, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)

	recent, err := h.svc.RecentCalls(c.Request.Context(), caller.UserID, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "calls": recent})
}
