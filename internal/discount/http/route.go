package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers discount administration routes. System Admin only.
func RegisterRoutes(r gin.IRouter, h *DiscountHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := r.Group("/discounts")
	group.Use(authMiddleware, adminMiddleware)
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.DELETE("/:code", h.Deactivate)
	}
}
