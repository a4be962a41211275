package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers account routes: public sign-up and login, the
// caller's own profile, and user administration for System Admins.
func RegisterRoutes(r gin.IRouter, h *UserHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)

	r.GET("/me", authMiddleware, h.Me)

	admin := r.Group("/users", authMiddleware, adminMiddleware)
	admin.GET("", h.List)
	admin.GET("/:id", h.Get)
	admin.PATCH("/:id", h.Update)
}
