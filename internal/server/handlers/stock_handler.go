package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/service/stock"
)

// StockHandler exposes inventory management for managers.
type StockHandler struct {
	svc    *stock.Service
	logger *zap.Logger
}

// NewStockHandler constructs the HTTP handler adapter.
func NewStockHandler(svc *stock.Service, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{svc: svc, logger: logger}
}

type addStockPayload struct {
	Category     string    `json:"category" binding:"required"`
	Type         string    `json:"type" binding:"required"`
	AgeDays      int       `json:"age_days"`
	Quantity     int       `json:"quantity" binding:"required"`
	ReceivedDate time.Time `json:"received_date"`
	Comments     string    `json:"comments"`
	Phone        string    `json:"phone"`
}

// AddStock records a new inventory batch.
func (h *StockHandler) AddStock(c *gin.Context) {
	caller, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	var payload addStockPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid stock payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	item, err := h.svc.AddStock(c.Request.Context(), stock.AddStockInput{
		Category:     payload.Category,
		Type:         payload.Type,
		AgeDays:      payload.AgeDays,
		Quantity:     payload.Quantity,
		ReceivedDate: payload.ReceivedDate,
		Comments:     payload.Comments,
		StaffName:    caller.Name,
		Phone:        payload.Phone,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "item": item})
}

// ListStock returns every inventory line.
func (h *StockHandler) ListStock(c *gin.Context) {
	items, err := h.svc.ListStock(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}
