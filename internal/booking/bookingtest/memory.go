// Package bookingtest provides in-memory doubles for the booking package.
package bookingtest

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/car-rental-backend/internal/booking"
)

// MemoryRepository implements booking.Repository. Create enforces the
// no-overlap rule itself, like the exclusion constraint in Postgres.
type MemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]*booking.Booking
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bookings: make(map[string]*booking.Booking)}
}

// LockVehicle is a no-op; pair the repository with dbtest.SerialTransactor.
func (r *MemoryRepository) LockVehicle(ctx context.Context, vehicleID string) error {
	return nil
}

func (r *MemoryRepository) HasOverlap(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.overlaps(vehicleID, start, end), nil
}

func (r *MemoryRepository) overlaps(vehicleID string, start, end time.Time) bool {
	for _, b := range r.bookings {
		if b.VehicleID == vehicleID && b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// Booked reports whether the vehicle is taken in [from, to). It matches
// vehicletest.MemoryRepository.Booked.
func (r *MemoryRepository) Booked(vehicleID string, from, to time.Time) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.overlaps(vehicleID, from, to)
}

// References reports whether any booking points at the vehicle.
func (r *MemoryRepository) References(vehicleID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.VehicleID == vehicleID {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) Create(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.Status.IsBlocking() && r.overlaps(b.VehicleID, b.StartDate, b.EndDate) {
		return booking.ErrDateConflict
	}
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *MemoryRepository) GetForUpdate(ctx context.Context, id string) (*booking.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *MemoryRepository) List(ctx context.Context, f booking.Filter) ([]*booking.Booking, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*booking.Booking
	for _, b := range r.bookings {
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.VehicleID != "" && b.VehicleID != f.VehicleID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.PaymentStatus != "" && b.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.From != nil && !b.EndDate.After(*f.From) {
			continue
		}
		if f.To != nil && !b.StartDate.Before(*f.To) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
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

func (r *MemoryRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[b.ID]
	if !ok {
		return booking.ErrNotFound
	}
	stored.Status = b.Status
	stored.PaymentStatus = b.PaymentStatus
	stored.UpdatedAt = time.Now().UTC()
	b.UpdatedAt = stored.UpdatedAt
	return nil
}

// MemoryCache implements booking.AvailabilityCache with generations, like
// the Redis cache.
type MemoryCache struct {
	mu      sync.Mutex
	gens    map[string]int64
	entries map[string]bool
	Hits    int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{gens: make(map[string]int64), entries: make(map[string]bool)}
}

func cacheKey(vehicleID string, gen int64, start, end time.Time) string {
	return vehicleID + "|" + strconv.FormatInt(gen, 10) + "|" +
		start.Format(time.DateOnly) + "|" + end.Format(time.DateOnly)
}

func (c *MemoryCache) Get(_ context.Context, vehicleID string, start, end time.Time) booking.CacheLookup {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gens[vehicleID]
	v, ok := c.entries[cacheKey(vehicleID, gen, start, end)]
	if ok {
		c.Hits++
	}
	return booking.CacheLookup{Hit: ok, Available: v, Generation: gen}
}

func (c *MemoryCache) Set(_ context.Context, vehicleID string, start, end time.Time, l booking.CacheLookup, available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(vehicleID, l.Generation, start, end)] = available
}

func (c *MemoryCache) Invalidate(_ context.Context, vehicleID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[vehicleID]++
}
