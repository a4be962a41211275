package http

import (
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/discount"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/request"
)

type ListDiscountsRequest struct {
	request.ListParams
	IsActive *bool `form:"is_active"`
}

type CreateDiscountRequest struct {
	Code           string     `json:"code" binding:"required,max=32"`
	Kind           string     `json:"kind" binding:"required,oneof=percent fixed"`
	Value          int64      `json:"value" binding:"required,min=1"`
	ValidFrom      *time.Time `json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until"`
	MaxRedemptions *int       `json:"max_redemptions" binding:"omitempty,min=1"`
}

type DiscountResponse struct {
	Code           string     `json:"code"`
	Kind           string     `json:"kind"`
	Value          int64      `json:"value"`
	IsActive       bool       `json:"is_active"`
	ValidFrom      time.Time  `json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until"`
	MaxRedemptions *int       `json:"max_redemptions"`
	Redemptions    int        `json:"redemptions"`
	CreatedAt      time.Time  `json:"created_at"`
}

func NewDiscountResponse(d *discount.DiscountCode) DiscountResponse {
	return DiscountResponse{
		Code:           d.Code,
		Kind:           string(d.Kind),
		Value:          d.Value,
		IsActive:       d.IsActive,
		ValidFrom:      d.ValidFrom,
		ValidUntil:     d.ValidUntil,
		MaxRedemptions: d.MaxRedemptions,
		Redemptions:    d.Redemptions,
		CreatedAt:      d.CreatedAt,
	}
}
