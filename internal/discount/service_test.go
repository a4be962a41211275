package discount_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-rental-backend/internal/discount"
	"github.com/nekogravitycat/car-rental-backend/internal/discount/discounttest"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		kind     discount.Kind
		value    int64
		subtotal int64
		want     int64
	}{
		{"percent floors", discount.KindPercent, 15, 999, 149},
		{"full percent", discount.KindPercent, 100, 300, 300},
		{"fixed", discount.KindFixed, 50, 300, 50},
		{"fixed clamped to subtotal", discount.KindFixed, 500, 300, 300},
		{"zero subtotal", discount.KindPercent, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &discount.DiscountCode{Kind: tt.kind, Value: tt.value}
			assert.Equal(t, tt.want, d.Amount(tt.subtotal))
		})
	}
}

func TestResolve(t *testing.T) {
	repo := discounttest.NewMemoryRepository()
	past := time.Now().Add(-48 * time.Hour)
	yesterday := time.Now().Add(-24 * time.Hour)
	one := 1

	repo.Add(&discount.DiscountCode{Code: "SPRING50", Kind: discount.KindFixed, Value: 50, IsActive: true, ValidFrom: past})
	repo.Add(&discount.DiscountCode{Code: "OFF", Kind: discount.KindFixed, Value: 50, IsActive: false, ValidFrom: past})
	repo.Add(&discount.DiscountCode{Code: "OLD", Kind: discount.KindPercent, Value: 10, IsActive: true, ValidFrom: past, ValidUntil: &yesterday})
	repo.Add(&discount.DiscountCode{Code: "ONCE", Kind: discount.KindPercent, Value: 10, IsActive: true, ValidFrom: past, MaxRedemptions: &one, Redemptions: 1})

	svc := discount.NewService(repo)
	ctx := context.Background()

	amount, err := svc.Resolve(ctx, " spring50 ", 300)
	require.NoError(t, err)
	assert.Equal(t, int64(50), amount)

	for code, want := range map[string]error{
		"NOPE": discount.ErrInvalidCode,
		"OFF":  discount.ErrInvalidCode,
		"OLD":  discount.ErrExpiredCode,
		"ONCE": discount.ErrExhaustedCode,
	} {
		_, err := svc.Resolve(ctx, code, 300)
		assert.ErrorIs(t, err, want, code)
		assert.True(t, errors.Is(err, apperror.ErrValidation), code)
	}
}

func TestRedeemRespectsLimit(t *testing.T) {
	repo := discounttest.NewMemoryRepository()
	svc := discount.NewService(repo)
	ctx := context.Background()
	two := 2

	_, err := svc.Create(ctx, discount.CreateRequest{Code: "twice", Kind: discount.KindPercent, Value: 20, MaxRedemptions: &two})
	require.NoError(t, err)

	require.NoError(t, svc.Redeem(ctx, "TWICE"))
	require.NoError(t, svc.Redeem(ctx, "twice"))
	assert.ErrorIs(t, svc.Redeem(ctx, "twice"), discount.ErrExhaustedCode)
	assert.ErrorIs(t, svc.Redeem(ctx, "unknown"), discount.ErrInvalidCode)
}

func TestCreateValidation(t *testing.T) {
	svc := discount.NewService(discounttest.NewMemoryRepository())
	ctx := context.Background()
	zero := 0
	now := time.Now()
	before := now.Add(-time.Hour)

	tests := []struct {
		name    string
		req     discount.CreateRequest
		wantErr error
	}{
		{"empty code", discount.CreateRequest{Code: " ", Kind: discount.KindFixed, Value: 10}, discount.ErrCodeRequired},
		{"unknown kind", discount.CreateRequest{Code: "X", Kind: "bogo", Value: 10}, discount.ErrInvalidKind},
		{"percent over 100", discount.CreateRequest{Code: "X", Kind: discount.KindPercent, Value: 120}, discount.ErrInvalidValue},
		{"fixed zero", discount.CreateRequest{Code: "X", Kind: discount.KindFixed, Value: 0}, discount.ErrInvalidValue},
		{"window reversed", discount.CreateRequest{Code: "X", Kind: discount.KindFixed, Value: 5, ValidFrom: &now, ValidUntil: &before}, discount.ErrInvalidWindow},
		{"zero max uses", discount.CreateRequest{Code: "X", Kind: discount.KindFixed, Value: 5, MaxRedemptions: &zero}, discount.ErrInvalidMaxUses},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := svc.Create(ctx, discount.CreateRequest{Code: "dup", Kind: discount.KindFixed, Value: 5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, discount.CreateRequest{Code: "DUP", Kind: discount.KindFixed, Value: 5})
	assert.ErrorIs(t, err, discount.ErrCodeTaken)
}

func TestDeactivate(t *testing.T) {
	svc := discount.NewService(discounttest.NewMemoryRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, discount.CreateRequest{Code: "summer", Kind: discount.KindPercent, Value: 10})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, "Summer"))

	_, err = svc.Resolve(ctx, "summer", 1000)
	assert.ErrorIs(t, err, discount.ErrInvalidCode)
	assert.ErrorIs(t, svc.Deactivate(ctx, "missing"), discount.ErrNotFound)
}
