package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// Public
	g.GET("/vehicles/:id/availability", h.Availability)

	group := g.Group("/bookings")
	group.Use(authMiddleware)
	{
		group.POST("/quote", h.Quote)
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.POST("/:id/cancel", h.Cancel)
	}

	admin := g.Group("/bookings")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/:id/confirm", h.Confirm)
		admin.POST("/:id/start", h.Start)
		admin.POST("/:id/complete", h.Complete)
		admin.POST("/:id/payment", h.RecordPayment)
	}
}
