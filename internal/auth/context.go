package auth

import "github.com/gin-gonic/gin"

const (
	userIDKey = "userID"
	actorKey  = "actor"
)

// Actor is the authenticated caller of a request. Handlers build it from the
// request context and pass it to services explicitly.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// CanAccess reports whether the actor may act on a record owned by ownerID.
func (a Actor) CanAccess(ownerID string) bool {
	return a.IsAdmin || (a.UserID != "" && a.UserID == ownerID)
}

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SetActor stores the resolved actor on the request.
func SetActor(c *gin.Context, actor Actor) {
	c.Set(actorKey, actor)
}

// GetActor returns the actor resolved for this request. When no actor
// middleware ran, it falls back to a non-admin actor built from the token.
func GetActor(c *gin.Context) Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(Actor); ok {
			return a
		}
	}
	return Actor{UserID: GetUserID(c)}
}
