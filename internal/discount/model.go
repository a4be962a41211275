package discount

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.Wrap(apperror.ErrNotFound, http.StatusNotFound, "discount code not found")
	ErrInvalidCode    = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "discount code is not valid")
	ErrExpiredCode    = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "discount code is expired or not yet valid")
	ErrExhaustedCode  = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "discount code has no redemptions left")
	ErrCodeRequired   = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "code is required")
	ErrInvalidKind    = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "kind must be percent or fixed")
	ErrInvalidValue   = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "invalid discount value")
	ErrInvalidWindow  = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "valid_until must be after valid_from")
	ErrInvalidMaxUses = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "max_redemptions must be positive")
	ErrCodeTaken      = apperror.Wrap(apperror.ErrConflict, http.StatusConflict, "discount code already exists")
)

type Kind string

const (
	KindPercent Kind = "percent"
	KindFixed   Kind = "fixed"
)

// DiscountCode is a promotion customers enter at checkout. Value is a
// percentage (1..100) for KindPercent and minor currency units for KindFixed.
type DiscountCode struct {
	Code           string
	Kind           Kind
	Value          int64
	IsActive       bool
	ValidFrom      time.Time
	ValidUntil     *time.Time
	MaxRedemptions *int
	Redemptions    int
	CreatedAt      time.Time
}

// Amount returns the discount for subtotal, never more than subtotal.
func (d *DiscountCode) Amount(subtotal int64) int64 {
	var amount int64
	switch d.Kind {
	case KindPercent:
		amount = subtotal * d.Value / 100
	case KindFixed:
		amount = d.Value
	}
	return max(0, min(amount, subtotal))
}

// usableAt reports why the code cannot be applied at t, or nil.
func (d *DiscountCode) usableAt(t time.Time) error {
	if !d.IsActive {
		return ErrInvalidCode
	}
	if t.Before(d.ValidFrom) || (d.ValidUntil != nil && !t.Before(*d.ValidUntil)) {
		return ErrExpiredCode
	}
	if d.MaxRedemptions != nil && d.Redemptions >= *d.MaxRedemptions {
		return ErrExhaustedCode
	}
	return nil
}

type Filter struct {
	IsActive *bool

	Page     int
	PageSize int
}
