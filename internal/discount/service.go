package discount

import (
	"context"
	"errors"
	"strings"
	"time"
)

// CreateRequest carries the fields of a new discount code.
type CreateRequest struct {
	Code           string
	Kind           Kind
	Value          int64
	ValidFrom      *time.Time // nil = now
	ValidUntil     *time.Time
	MaxRedemptions *int
}

// Resolver prices a discount code against a booking subtotal.
type Resolver interface {
	// Resolve returns the discount amount for subtotal. Unknown, inactive,
	// expired and exhausted codes fail with a validation error.
	Resolve(ctx context.Context, code string, subtotal int64) (int64, error)
	// Redeem counts one use of a code that Resolve accepted.
	Redeem(ctx context.Context, code string) error
}

type Service interface {
	Resolver
	Create(ctx context.Context, req CreateRequest) (*DiscountCode, error)
	List(ctx context.Context, filter Filter) ([]*DiscountCode, int, error)
	Deactivate(ctx context.Context, code string) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

// NormalizeCode makes codes case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *service) Resolve(ctx context.Context, code string, subtotal int64) (int64, error) {
	d, err := s.repo.GetByCode(ctx, NormalizeCode(code))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrInvalidCode
		}
		return 0, err
	}
	if err := d.usableAt(s.now()); err != nil {
		return 0, err
	}
	return d.Amount(subtotal), nil
}

func (s *service) Redeem(ctx context.Context, code string) error {
	err := s.repo.Redeem(ctx, NormalizeCode(code))
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidCode
	}
	return err
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*DiscountCode, error) {
	d := &DiscountCode{
		Code:           NormalizeCode(req.Code),
		Kind:           req.Kind,
		Value:          req.Value,
		IsActive:       true,
		ValidFrom:      s.now().UTC(),
		ValidUntil:     req.ValidUntil,
		MaxRedemptions: req.MaxRedemptions,
	}
	if req.ValidFrom != nil {
		d.ValidFrom = *req.ValidFrom
	}

	if d.Code == "" {
		return nil, ErrCodeRequired
	}
	switch d.Kind {
	case KindPercent:
		if d.Value < 1 || d.Value > 100 {
			return nil, ErrInvalidValue
		}
	case KindFixed:
		if d.Value < 1 {
			return nil, ErrInvalidValue
		}
	default:
		return nil, ErrInvalidKind
	}
	if d.ValidUntil != nil && !d.ValidUntil.After(d.ValidFrom) {
		return nil, ErrInvalidWindow
	}
	if d.MaxRedemptions != nil && *d.MaxRedemptions < 1 {
		return nil, ErrInvalidMaxUses
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*DiscountCode, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Deactivate(ctx context.Context, code string) error {
	return s.repo.Deactivate(ctx, NormalizeCode(code))
}
