package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/user"
	"github.com/nekogravitycat/car-rental-backend/internal/user/usertest"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTManager, *usertest.MemoryRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := usertest.NewMemoryRepository()
	jwtManager := auth.NewJWTManager("test-secret", time.Minute)
	userService := user.NewService(users, auth.NewBcryptPasswordHasherWithCost(4))

	r := gin.New()
	echo := func(c *gin.Context) {
		actor := auth.GetActor(c)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "is_admin": actor.IsAdmin})
	}
	r.GET("/me", RequireActor(jwtManager, userService), echo)
	r.GET("/admin", RequireActor(jwtManager, userService), RequireSystemAdmin(), echo)
	return r, jwtManager, users
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireActor(t *testing.T) {
	r, jwtManager, users := newTestRouter(t)

	active := users.Add(&user.User{Email: "rider@example.com", IsActive: true})
	inactive := users.Add(&user.User{Email: "gone@example.com", IsActive: false})
	admin := users.Add(&user.User{Email: "ops@example.com", IsActive: true, IsSystemAdmin: true})

	token := func(id string) string {
		tok, err := jwtManager.GenerateAccessToken(id)
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
	}{
		{"no token", "/me", "", http.StatusUnauthorized},
		{"garbage token", "/me", "not-a-jwt", http.StatusUnauthorized},
		{"unknown user", "/me", token("7d1e2f3a-0000-4000-8000-000000000000"), http.StatusUnauthorized},
		{"inactive user", "/me", token(inactive.ID), http.StatusForbidden},
		{"active user", "/me", token(active.ID), http.StatusOK},
		{"customer on admin route", "/admin", token(active.ID), http.StatusForbidden},
		{"admin on admin route", "/admin", token(admin.ID), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.path, tt.token)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}

	w := get(r, "/admin", token(admin.ID))
	assert.JSONEq(t, `{"user_id":"`+admin.ID+`","is_admin":true}`, w.Body.String())
}

func TestRequireSystemAdminWithoutActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", RequireSystemAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(r, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitOrigins(" https://a.example, ,https://b.example "))
	assert.Nil(t, splitOrigins(""))
}
