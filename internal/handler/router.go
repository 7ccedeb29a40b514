package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tableside/internal/domain/staff"
	"tableside/internal/handler/api"
	"tableside/internal/handler/middleware"
	"tableside/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	orderHandler *api.OrderHandler,
	paymentHandler *api.PaymentHandler,
	tableHandler *api.TableHandler,
	indicatorHandler *api.IndicatorHandler,
	connectionHandler *api.ConnectionHandler,
	notificationHandler *api.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, orderHandler, paymentHandler, tableHandler, indicatorHandler, connectionHandler, notificationHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	orderHandler *api.OrderHandler,
	paymentHandler *api.PaymentHandler,
	tableHandler *api.TableHandler,
	indicatorHandler *api.IndicatorHandler,
	connectionHandler *api.ConnectionHandler,
	notificationHandler *api.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		orders := apiGroup.Group("/orders")
		{
			// The gateway has no credentials; the callback MAC is the integrity check.
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "/callback", Handler: paymentHandler.Callback},
			})

			authed := orders.Group("")
			authed.Use(authMiddleware.RequireAuth())
			addRoutes(authed, []route{
				{Method: http.MethodPost, Path: "", Handler: orderHandler.CreateOrders,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner, staff.RoleEmployee)}},
				{Method: http.MethodGet, Path: "", Handler: orderHandler.ListOrders,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner, staff.RoleEmployee)}},
				{Method: http.MethodGet, Path: "/:id", Handler: orderHandler.GetOrder,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner, staff.RoleEmployee)}},
				{Method: http.MethodPut, Path: "/:id", Handler: orderHandler.UpdateOrder,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner, staff.RoleEmployee)}},
				{Method: http.MethodPost, Path: "/pay", Handler: paymentHandler.PayOrders,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner)}},
				{Method: http.MethodPost, Path: "/gateway-payment", Handler: paymentHandler.PayWithGateway},
				{Method: http.MethodGet, Path: "/status/:transaction_id", Handler: paymentHandler.CheckStatus},
			})
		}

		tables := apiGroup.Group("/tables")
		tables.Use(authMiddleware.RequireAuth())
		{
			addRoutes(tables, []route{
				{Method: http.MethodGet, Path: "", Handler: tableHandler.ListTables,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner, staff.RoleEmployee)}},
				{Method: http.MethodGet, Path: "/:number", Handler: tableHandler.GetTable,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner, staff.RoleEmployee)}},
				{Method: http.MethodPost, Path: "", Handler: tableHandler.CreateTable,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner)}},
				{Method: http.MethodPut, Path: "/:number", Handler: tableHandler.UpdateTable,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner)}},
				{Method: http.MethodDelete, Path: "/:number", Handler: tableHandler.DeleteTable,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner)}},
			})
		}

		notifications := apiGroup.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth())
		{
			addRoutes(notifications, []route{
				{Method: http.MethodGet, Path: "", Handler: notificationHandler.ListNotifications,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner, staff.RoleEmployee)}},
				{Method: http.MethodPut, Path: "/mark-all-read", Handler: notificationHandler.MarkAllRead,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner, staff.RoleEmployee)}},
				{Method: http.MethodPut, Path: "/:id", Handler: notificationHandler.MarkRead,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner, staff.RoleEmployee)}},
				{Method: http.MethodDelete, Path: "", Handler: notificationHandler.DeleteAll,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner, staff.RoleEmployee)}},
			})
		}

		indicators := apiGroup.Group("/indicators")
		indicators.Use(authMiddleware.RequireAuth())
		{
			addRoutes(indicators, []route{
				{Method: http.MethodGet, Path: "/dashboard", Handler: indicatorHandler.Dashboard,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(staff.RoleOwner, staff.RoleEmployee)}},
			})
		}

		connections := apiGroup.Group("/connections")
		connections.Use(authMiddleware.RequireAuth())
		{
			addRoutes(connections, []route{
				{Method: http.MethodPost, Path: "", Handler: connectionHandler.Register},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
