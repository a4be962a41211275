package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/user"
)

// RequireActor validates the bearer token, loads the caller and stores the
// resulting auth.Actor on the request. Deactivated accounts are rejected
// even while their token is still valid.
func RequireActor(jwtManager *auth.JWTManager, userService user.Service) gin.HandlerFunc {
	verifyToken := auth.AuthRequired(jwtManager)

	return func(c *gin.Context) {
		verifyToken(c)
		if c.IsAborted() {
			return
		}

		u, err := userService.GetByID(c.Request.Context(), auth.GetUserID(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		if !u.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user is inactive"})
			return
		}

		auth.SetActor(c, auth.Actor{UserID: u.ID, IsAdmin: u.IsSystemAdmin})
		c.Next()
	}
}

// RequireSystemAdmin ensures the caller is a system admin.
// It MUST be used after RequireActor.
func RequireSystemAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := auth.GetActor(c)
		if actor.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !actor.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: system admin access required"})
			return
		}

		c.Next()
	}
}
