// Package discounttest provides an in-memory discount.Repository for tests.
package discounttest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/discount"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	codes map[string]*discount.DiscountCode
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{codes: make(map[string]*discount.DiscountCode)}
}

// Add stores d as-is. Codes must already be normalized.
func (r *MemoryRepository) Add(d *discount.DiscountCode) *discount.DiscountCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	cp := *d
	r.codes[d.Code] = &cp
	return d
}

func (r *MemoryRepository) Create(ctx context.Context, d *discount.DiscountCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codes[d.Code]; ok {
		return discount.ErrCodeTaken
	}
	d.CreatedAt = time.Now().UTC()
	cp := *d
	r.codes[d.Code] = &cp
	return nil
}

func (r *MemoryRepository) GetByCode(ctx context.Context, code string) (*discount.DiscountCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.codes[code]
	if !ok {
		return nil, discount.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context, f discount.Filter) ([]*discount.DiscountCode, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*discount.DiscountCode
	for _, d := range r.codes {
		if f.IsActive != nil && d.IsActive != *f.IsActive {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, len(out), nil
}

func (r *MemoryRepository) Deactivate(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.codes[code]
	if !ok {
		return discount.ErrNotFound
	}
	d.IsActive = false
	return nil
}

func (r *MemoryRepository) Redeem(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.codes[code]
	if !ok {
		return discount.ErrNotFound
	}
	if d.MaxRedemptions != nil && d.Redemptions >= *d.MaxRedemptions {
		return discount.ErrExhaustedCode
	}
	d.Redemptions++
	return nil
}
