// Package vehicletest provides an in-memory vehicle.Repository for tests.
package vehicletest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/car-rental-backend/internal/vehicle"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*vehicle.Vehicle

	// Booked reports whether a vehicle is taken in [from, to). Used for the
	// availability filter; nil means every vehicle is free.
	Booked func(vehicleID string, from, to time.Time) bool
	// Referenced reports whether bookings point at the vehicle; Delete refuses those.
	Referenced func(vehicleID string) bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{vehicles: make(map[string]*vehicle.Vehicle)}
}

// Add stores v as-is, assigning an ID if it has none.
func (r *MemoryRepository) Add(v *vehicle.Vehicle) *vehicle.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
		v.UpdatedAt = v.CreatedAt
	}
	cp := *v
	r.vehicles[v.ID] = &cp
	return v
}

func (r *MemoryRepository) Create(ctx context.Context, v *vehicle.Vehicle) error {
	v.ID = ""
	v.CreatedAt = time.Time{}
	r.Add(v)
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[id]
	if !ok {
		return nil, vehicle.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context, f vehicle.Filter) ([]*vehicle.Vehicle, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*vehicle.Vehicle
	for _, v := range r.vehicles {
		if f.OnlyActive && !v.IsActive {
			continue
		}
		if f.Category != "" && v.Category != f.Category {
			continue
		}
		if f.Transmission != "" && v.Transmission != f.Transmission {
			continue
		}
		if f.City != "" && !strings.EqualFold(v.City, f.City) {
			continue
		}
		if f.Keyword != "" {
			kw := strings.ToLower(f.Keyword)
			if !strings.Contains(strings.ToLower(v.Make), kw) && !strings.Contains(strings.ToLower(v.Model), kw) {
				continue
			}
		}
		if f.MinPrice != nil && v.PricePerDay < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && v.PricePerDay > *f.MaxPrice {
			continue
		}
		if v.Seats < f.MinSeats {
			continue
		}
		if f.AvailableFrom != nil && f.AvailableTo != nil && r.Booked != nil &&
			r.Booked(v.ID, *f.AvailableFrom, *f.AvailableTo) {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if f.SortBy == "price_per_day" {
			if f.SortOrder == "ASC" {
				return out[i].PricePerDay < out[j].PricePerDay
			}
			return out[i].PricePerDay > out[j].PricePerDay
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	total := len(out)
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		start := min((page-1)*f.PageSize, total)
		end := min(start+f.PageSize, total)
		out = out[start:end]
	}
	return out, total, nil
}

func (r *MemoryRepository) Update(ctx context.Context, v *vehicle.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[v.ID]; !ok {
		return vehicle.ErrNotFound
	}
	v.UpdatedAt = time.Now().UTC()
	cp := *v
	r.vehicles[v.ID] = &cp
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[id]; !ok {
		return vehicle.ErrNotFound
	}
	if r.Referenced != nil && r.Referenced(id) {
		return vehicle.ErrHasBookings
	}
	delete(r.vehicles, id)
	return nil
}
