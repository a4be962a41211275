package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-backend/internal/discount"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/response"
)

type DiscountHandler struct {
	service discount.Service
}

func NewHandler(service discount.Service) *DiscountHandler {
	return &DiscountHandler{service: service}
}

func (h *DiscountHandler) List(c *gin.Context) {
	var req ListDiscountsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	codes, total, err := h.service.List(c.Request.Context(), discount.Filter{
		IsActive: req.IsActive,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]DiscountResponse, len(codes))
	for i, d := range codes {
		items[i] = NewDiscountResponse(d)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *DiscountHandler) Create(c *gin.Context) {
	var body CreateDiscountRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	d, err := h.service.Create(c.Request.Context(), discount.CreateRequest{
		Code:           body.Code,
		Kind:           discount.Kind(body.Kind),
		Value:          body.Value,
		ValidFrom:      body.ValidFrom,
		ValidUntil:     body.ValidUntil,
		MaxRedemptions: body.MaxRedemptions,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewDiscountResponse(d))
}

// Deactivate retires a code. Codes are never deleted so past bookings keep their reference.
func (h *DiscountHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
