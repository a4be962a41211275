package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "app error",
			err:      apperror.Wrap(apperror.ErrConflict, http.StatusConflict, "taken"),
			wantCode: http.StatusConflict,
			wantMsg:  "taken",
		},
		{
			name:     "wrapped app error",
			err:      fmt.Errorf("ctx: %w", apperror.New(http.StatusNotFound, "missing")),
			wantCode: http.StatusNotFound,
			wantMsg:  "missing",
		},
		{
			name:     "plain error is hidden",
			err:      errors.New("connection refused"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}

func TestNewPageResponseNeverNull(t *testing.T) {
	resp := NewPageResponse[int](nil, 1, 20, 0)
	assert.NotNil(t, resp.Items)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"items":[]`)
}

func TestErrorClientGone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

	Error(c, fmt.Errorf("query: %w", context.Canceled))

	assert.Equal(t, StatusClientClosedRequest, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestNewPageResponseTotalPages(t *testing.T) {
	tests := []struct {
		total, pageSize, want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewPageResponse([]int{}, 1, tt.pageSize, tt.total).TotalPages)
	}
}
