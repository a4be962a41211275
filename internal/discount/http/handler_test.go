package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-rental-backend/internal/discount"
	"github.com/nekogravitycat/car-rental-backend/internal/discount/discounttest"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/response"
)

func setupRouter(admin bool) (*gin.Engine, *discounttest.MemoryRepository) {
	gin.SetMode(gin.TestMode)
	repo := discounttest.NewMemoryRepository()

	pass := func(c *gin.Context) {}
	gate := func(c *gin.Context) {
		if !admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		}
	}

	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(discount.NewService(repo)), pass, gate)
	return r, repo
}

func send(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateListDeactivate(t *testing.T) {
	r, _ := setupRouter(true)

	w := send(r, http.MethodPost, "/v1/discounts", CreateDiscountRequest{Code: " summer10 ", Kind: "percent", Value: 10})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created DiscountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "SUMMER10", created.Code)
	assert.True(t, created.IsActive)

	w = send(r, http.MethodPost, "/v1/discounts", CreateDiscountRequest{Code: "SUMMER10", Kind: "fixed", Value: 5})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = send(r, http.MethodDelete, "/v1/discounts/summer10", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = send(r, http.MethodGet, "/v1/discounts?is_active=false", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page response.PageResponse[DiscountResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.False(t, page.Items[0].IsActive)

	w = send(r, http.MethodDelete, "/v1/discounts/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateDiscountValidation(t *testing.T) {
	r, _ := setupRouter(true)

	tests := []struct {
		name string
		body any
	}{
		{"unknown kind", gin.H{"code": "X", "kind": "bogo", "value": 1}},
		{"percent over 100", CreateDiscountRequest{Code: "X", Kind: "percent", Value: 150}},
		{"zero max uses", gin.H{"code": "X", "kind": "fixed", "value": 5, "max_redemptions": 0}},
		{"missing code", gin.H{"kind": "fixed", "value": 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := send(r, http.MethodPost, "/v1/discounts", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestDiscountsAdminOnly(t *testing.T) {
	r, _ := setupRouter(false)

	w := send(r, http.MethodGet, "/v1/discounts", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
