package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/domain/models"
	"github.com/mamadbah2/brooder/internal/service/intake"
	"github.com/mamadbah2/brooder/internal/service/lifecycle"
	"github.com/mamadbah2/brooder/internal/service/reporting"
)

// RequestHandler exposes request intake for farmers and the lifecycle
// transitions for managers.
type RequestHandler struct {
	intakeSvc    *intake.Service
	lifecycleSvc *lifecycle.Service
	reportingSvc *reporting.Service
	logger       *zap.Logger
}

// NewRequestHandler constructs the HTTP handler adapter.
func NewRequestHandler(intakeSvc *intake.Service, lifecycleSvc *lifecycle.Service, reportingSvc *reporting.Service, logger *zap.Logger) *RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestHandler{
		intakeSvc:    intakeSvc,
		lifecycleSvc: lifecycleSvc,
		reportingSvc: reportingSvc,
		logger:       logger,
	}
}

type chickRequestPayload struct {
	FarmerType string  `json:"farmer_type" binding:"required"`
	ChickType  string  `json:"chick_type" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required"`
	UnitPrice  float64 `json:"unit_price"`
	Comments   string  `json:"comments"`
}

// CreateChickRequest files a new chick order for the authenticated farmer.
func (h *RequestHandler) CreateChickRequest(c *gin.Context) {
	caller, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	var payload chickRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid chick request payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	req, err := h.intakeSvc.SubmitChickRequest(c.Request.Context(), intake.ChickRequestInput{
		FarmerID:   caller.UserID,
		FarmerName: caller.Name,
		FarmerType: models.FarmerType(payload.FarmerType),
		ChickType:  payload.ChickType,
		Quantity:   payload.Quantity,
		UnitPrice:  payload.UnitPrice,
		Comments:   payload.Comments,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "request": req})
}

type feedRequestPayload struct {
	FarmerPhone         string   `json:"farmer_phone" binding:"required"`
	FarmerNIN           string   `json:"farmer_nin" binding:"required"`
	FarmerType          string   `json:"farmer_type" binding:"required"`
	CurrentChicks       int      `json:"current_chicks"`
	FarmLocation        string   `json:"farm_location" binding:"required"`
	FeedTypes           []string `json:"feed_types" binding:"required"`
	FeedQuantity        int      `json:"feed_quantity" binding:"required"`
	Urgency             string   `json:"urgency" binding:"required"`
	SpecialRequirements string   `json:"special_requirements"`
}

// CreateFeedRequest files a new feed order for the authenticated farmer.
func (h *RequestHandler) CreateFeedRequest(c *gin.Context) {
	caller, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	var payload feedRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid feed request payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	feedTypes := make([]models.FeedType, 0, len(payload.FeedTypes))
	for _, ft := range payload.FeedTypes {
		feedTypes = append(feedTypes, models.FeedType(ft))
	}

	req, err := h.intakeSvc.SubmitFeedRequest(c.Request.Context(), intake.FeedRequestInput{
		FarmerID:            caller.UserID,
		FarmerName:          caller.Name,
		FarmerPhone:         payload.FarmerPhone,
		FarmerNIN:           payload.FarmerNIN,
		FarmerType:          models.FarmerType(payload.FarmerType),
		CurrentChicks:       payload.CurrentChicks,
		FarmLocation:        payload.FarmLocation,
		FeedTypes:           feedTypes,
		FeedQuantity:        payload.FeedQuantity,
		Urgency:             models.Urgency(payload.Urgency),
		SpecialRequirements: payload.SpecialRequirements,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "request": req})
}

// ListMine returns the authenticated farmer's own chick and feed requests.
func (h *RequestHandler) ListMine(c *gin.Context) {
	caller, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	requests, err := h.intakeSvc.ListFarmerRequests(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "requests": requests})
}

type transitionPayload struct {
	Reason string `json:"reason"`
}

// Approve moves a pending request to approved, reserving stock.
func (h *RequestHandler) Approve(c *gin.Context) {
	h.transition(c, func(c *gin.Context, kind models.RequestKind, id, manager string) (*lifecycle.Result, error) {
		return h.lifecycleSvc.Approve(c.Request.Context(), kind, id, manager)
	})
}

// Reject turns down a pending request with an optional reason.
func (h *RequestHandler) Reject(c *gin.Context) {
	h.transition(c, func(c *gin.Context, kind models.RequestKind, id, manager string) (*lifecycle.Result, error) {
		var payload transitionPayload
		_ = c.ShouldBindJSON(&payload)
		return h.lifecycleSvc.Reject(c.Request.Context(), kind, id, manager, payload.Reason)
	})
}

// Dispatch marks an approved request as handed over.
func (h *RequestHandler) Dispatch(c *gin.Context) {
	h.transition(c, func(c *gin.Context, kind models.RequestKind, id, manager string) (*lifecycle.Result, error) {
		return h.lifecycleSvc.Dispatch(c.Request.Context(), kind, id, manager)
	})
}

// Cancel withdraws an approved request and restores its stock.
func (h *RequestHandler) Cancel(c *gin.Context) {
	h.transition(c, func(c *gin.Context, kind models.RequestKind, id, manager string) (*lifecycle.Result, error) {
		var payload transitionPayload
		_ = c.ShouldBindJSON(&payload)
		return h.lifecycleSvc.Cancel(c.Request.Context(), kind, id, manager, payload.Reason)
	})
}

func (h *RequestHandler) transition(c *gin.Context, apply func(*gin.Context, models.RequestKind, string, string) (*lifecycle.Result, error)) {
	caller, ok := CallerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
		return
	}

	kind, err := models.ParseRequestKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := apply(c, kind, c.Param("id"), caller.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	// Stats are refreshed after the transition so the dashboard the manager
	// is looking at can update without a second round trip.
	stats, err := h.reportingSvc.ManagerStats(c.Request.Context())
	if err != nil {
		h.logger.Warn("failed to refresh manager stats", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": result.Message,
		"request": result.Order,
		"stats":   stats,
	})
}
