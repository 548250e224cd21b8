package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/domain/models"
	"github.com/mamadbah2/brooder/internal/server/handlers"
	"github.com/mamadbah2/brooder/internal/service/auth"
)

// Handlers groups the HTTP adapters the router wires up.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Requests  *handlers.RequestHandler
	Stock     *handlers.StockHandler
	Dashboard *handlers.DashboardHandler
	Calls     *handlers.CallHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, authSvc *auth.Service, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("", authRequired(authSvc))

	farmer := authed.Group("", requireRole(models.RoleFarmer))
	farmer.POST("/requests/chicks", h.Requests.CreateChickRequest)
	farmer.POST("/requests/feeds", h.Requests.CreateFeedRequest)
	farmer.GET("/requests/mine", h.Requests.ListMine)
	farmer.GET("/dashboard/farmer", h.Dashboard.Farmer)

	manager := authed.Group("", requireRole(models.RoleManager))
	manager.POST("/requests/:kind/:id/approve", h.Requests.Approve)
	manager.POST("/requests/:kind/:id/reject", h.Requests.Reject)
	manager.POST("/requests/:kind/:id/dispatch", h.Requests.Dispatch)
	manager.POST("/requests/:kind/:id/cancel", h.Requests.Cancel)
	manager.POST("/stock", h.Stock.AddStock)
	manager.GET("/stock", h.Stock.ListStock)
	manager.GET("/dashboard/manager", h.Dashboard.Manager)

	sales := authed.Group("", requireRole(models.RoleSalesRep))
	sales.POST("/calls", h.Calls.Create)
	sales.GET("/calls/recent", h.Calls.Recent)
	sales.GET("/dashboard/sales", h.Dashboard.Sales)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}
