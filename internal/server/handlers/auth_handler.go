package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/domain/models"
	"github.com/mamadbah2/brooder/internal/service/auth"
)

// AuthHandler exposes account registration and login.
type AuthHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(svc *auth.Service, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

type signupRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	Password        string `json:"password" binding:"required"`
	Role            string `json:"role" binding:"required"`
	NIN             string `json:"nin"`
	RecommenderName string `json:"recommender_name"`
	RecommenderNIN  string `json:"recommender_nin"`
}

// Signup registers a new account.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid signup payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	user, err := h.svc.Signup(c.Request.Context(), auth.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		Role:            models.Role(req.Role),
		NIN:             req.NIN,
		RecommenderName: req.RecommenderName,
		RecommenderNIN:  req.RecommenderNIN,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}
