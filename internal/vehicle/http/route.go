package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(r gin.IRouter, h *VehicleHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	vehicles := r.Group("/vehicles")
	{
		vehicles.GET("", h.List)
		vehicles.GET("/:id", h.Get)
	}

	admin := r.Group("/vehicles")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.POST("/:id/photo", h.UploadPhoto)
	}
}
