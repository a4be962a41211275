package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/response"
	"github.com/nekogravitycat/car-rental-backend/internal/user"
	"github.com/nekogravitycat/car-rental-backend/internal/user/usertest"
)

type testEnv struct {
	router *gin.Engine
	users  *usertest.MemoryRepository
	jwt    *auth.JWTManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := usertest.NewMemoryRepository()
	svc := user.NewService(users, auth.NewBcryptPasswordHasherWithCost(4))
	jwtManager := auth.NewJWTManager("secret", time.Hour)

	// The admin gate normally comes from the api package; this one reads the
	// flag straight from the store.
	admin := func(c *gin.Context) {
		u, err := users.GetByID(c.Request.Context(), auth.GetUserID(c))
		if err != nil || !u.IsSystemAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		}
	}

	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc, user.NewCredentialVerifier(svc), jwtManager), auth.AuthRequired(jwtManager), admin)
	return &testEnv{router: r, users: users, jwt: jwtManager}
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/v1/auth/register", RegisterRequest{
		Email: "Driver@Example.com", Password: "longenough", DisplayName: "Driver",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(http.MethodPost, "/v1/auth/register", RegisterRequest{
		Email: "driver@example.com", Password: "longenough", DisplayName: "Again",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPost, "/v1/auth/login", LoginRequest{Email: "driver@example.com", Password: "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/v1/auth/login", LoginRequest{Email: "driver@example.com", Password: "longenough"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.Equal(t, "Bearer", login.TokenType)
	assert.Equal(t, int64(3600), login.ExpiresIn)
	assert.Equal(t, "driver@example.com", login.User.Email)

	w = env.do(http.MethodGet, "/v1/me", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var me MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, login.User.ID, me.User.ID)

	w = env.do(http.MethodGet, "/v1/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "nope", Password: "longenough", DisplayName: "X"}},
		{"short password", RegisterRequest{Email: "a@example.com", Password: "short", DisplayName: "X"}},
		{"no display name", RegisterRequest{Email: "a@example.com", Password: "longenough"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/v1/auth/register", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestInactiveUserCannotLogin(t *testing.T) {
	env := newTestEnv(t)
	hash, err := auth.NewBcryptPasswordHasherWithCost(4).Hash("longenough")
	require.NoError(t, err)
	env.users.Add(&user.User{Email: "gone@example.com", PasswordHash: hash, IsActive: false})

	w := env.do(http.MethodPost, "/v1/auth/login", LoginRequest{Email: "gone@example.com", Password: "longenough"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)

	admin := env.users.Add(&user.User{Email: "ops@example.com", IsActive: true, IsSystemAdmin: true})
	customer := env.users.Add(&user.User{Email: "rider@example.com", IsActive: true})

	adminToken, err := env.jwt.GenerateAccessToken(admin.ID)
	require.NoError(t, err)
	customerToken, err := env.jwt.GenerateAccessToken(customer.ID)
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/v1/users", nil, customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/v1/users", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	var page response.PageResponse[UserResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Total)

	inactive := false
	w = env.do(http.MethodPatch, "/v1/users/"+customer.ID, UpdateUserRequest{IsActive: &inactive}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.False(t, updated.User.IsActive)

	w = env.do(http.MethodGet, "/v1/users/not-a-uuid", nil, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
