package booking

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/db"
	"github.com/nekogravitycat/car-rental-backend/internal/discount"
	"github.com/nekogravitycat/car-rental-backend/internal/notification"
	"github.com/nekogravitycat/car-rental-backend/internal/vehicle"
)

// VehicleCatalog is the part of the vehicle service bookings need.
type VehicleCatalog interface {
	GetByID(ctx context.Context, id string) (*vehicle.Vehicle, error)
}

type CreateRequest struct {
	VehicleID       string
	UserID          string
	StartDate       time.Time
	EndDate         time.Time
	PickupLocation  string
	DropoffLocation string
	DiscountCode    string // optional
}

type QuoteRequest struct {
	VehicleID    string
	StartDate    time.Time
	EndDate      time.Time
	DiscountCode string
}

type Service interface {
	// Quote prices a rental without reserving anything.
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
	// Create reserves the vehicle in status pending. Check and insert run in
	// one transaction under a vehicle row lock.
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Confirm(ctx context.Context, id string) (*Booking, error)
	Cancel(ctx context.Context, id string, actor auth.Actor) (*Booking, error)
	// Start hands the vehicle over (pickup).
	Start(ctx context.Context, id string) (*Booking, error)
	// Complete takes the vehicle back (dropoff).
	Complete(ctx context.Context, id string) (*Booking, error)
	// RecordPayment applies a payment outcome. With autoConfirm, a pending
	// booking that becomes paid is confirmed in the same transaction.
	RecordPayment(ctx context.Context, id string, status PaymentStatus, autoConfirm bool) (*Booking, error)
	// CheckAvailability reports whether no blocking booking intersects
	// [start, end). Answers may come from the availability cache.
	CheckAvailability(ctx context.Context, vehicleID string, start, end time.Time) (bool, error)
	Get(ctx context.Context, id string, actor auth.Actor) (*Booking, error)
	// List restricts non-admin actors to their own bookings.
	List(ctx context.Context, filter Filter, actor auth.Actor) ([]*Booking, int, error)
}

type service struct {
	repo      Repository
	tx        db.Transactor
	vehicles  VehicleCatalog
	discounts discount.Resolver
	cache     AvailabilityCache
	publisher notification.Publisher
	now       func() time.Time
}

func NewService(
	repo Repository,
	tx db.Transactor,
	vehicles VehicleCatalog,
	discounts discount.Resolver,
	cache AvailabilityCache,
	publisher notification.Publisher,
) Service {
	if cache == nil {
		cache = NoopCache{}
	}
	if publisher == nil {
		publisher = notification.NoopPublisher{}
	}
	return &service{
		repo:      repo,
		tx:        tx,
		vehicles:  vehicles,
		discounts: discounts,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *service) validateRange(start, end time.Time) error {
	if !start.Before(end) {
		return ErrInvalidDateRange
	}
	if start.Before(DateOnly(s.now())) {
		return ErrDateInPast
	}
	if TotalDays(start, end) > MaxRentalDays {
		return ErrRentalTooLong
	}
	return nil
}

// rentable loads the vehicle and rejects inactive ones.
func (s *service) rentable(ctx context.Context, vehicleID string) (*vehicle.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if !v.IsActive {
		return nil, ErrVehicleUnavailable
	}
	return v, nil
}

func (s *service) price(ctx context.Context, v *vehicle.Vehicle, start, end time.Time, code string) (Quote, error) {
	q := NewQuote(v.ID, start, end, v.PricePerDay, "", 0)
	if code == "" {
		return q, nil
	}
	amount, err := s.discounts.Resolve(ctx, code, q.Subtotal)
	if err != nil {
		return Quote{}, err
	}
	return NewQuote(v.ID, start, end, v.PricePerDay, code, amount), nil
}

func (s *service) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	start, end := DateOnly(req.StartDate), DateOnly(req.EndDate)
	if err := s.validateRange(start, end); err != nil {
		return nil, err
	}

	v, err := s.rentable(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	q, err := s.price(ctx, v, start, end, discount.NormalizeCode(req.DiscountCode))
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	start, end := DateOnly(req.StartDate), DateOnly(req.EndDate)
	if err := s.validateRange(start, end); err != nil {
		return nil, err
	}
	code := discount.NormalizeCode(req.DiscountCode)

	var b *Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockVehicle(ctx, req.VehicleID); err != nil {
			return err
		}

		v, err := s.rentable(ctx, req.VehicleID)
		if err != nil {
			return err
		}

		overlap, err := s.repo.HasOverlap(ctx, v.ID, start, end)
		if err != nil {
			return err
		}
		if overlap {
			return ErrDateConflict
		}

		q, err := s.price(ctx, v, start, end, code)
		if err != nil {
			return err
		}

		var codePtr *string
		if code != "" {
			if err := s.discounts.Redeem(ctx, code); err != nil {
				return err
			}
			codePtr = &code
		}

		b = &Booking{
			VehicleID:       v.ID,
			UserID:          req.UserID,
			StartDate:       start,
			EndDate:         end,
			Status:          StatusPending,
			PaymentStatus:   PaymentPending,
			TotalDays:       q.TotalDays,
			PricePerDay:     q.PricePerDay,
			Subtotal:        q.Subtotal,
			DiscountCode:    codePtr,
			DiscountAmount:  q.DiscountAmount,
			TotalAmount:     q.TotalAmount,
			PickupLocation:  strings.TrimSpace(req.PickupLocation),
			DropoffLocation: strings.TrimSpace(req.DropoffLocation),
		}
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, b, notification.EventBookingCreated)
	return b, nil
}

// transition loads the booking under a row lock, applies mutate and
// persists the result in one transaction.
func (s *service) transition(ctx context.Context, id string, mutate func(b *Booking) ([]notification.EventType, error)) (*Booking, error) {
	var (
		b      *Booking
		events []notification.EventType
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if events, err = mutate(b); err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, b, events...)
	return b, nil
}

// moveTo returns a mutation to the given status.
func moveTo(next Status, event notification.EventType) func(b *Booking) ([]notification.EventType, error) {
	return func(b *Booking) ([]notification.EventType, error) {
		if !b.Status.CanTransitionTo(next) {
			return nil, ErrInvalidTransition
		}
		b.Status = next
		return []notification.EventType{event}, nil
	}
}

func (s *service) Confirm(ctx context.Context, id string) (*Booking, error) {
	return s.transition(ctx, id, func(b *Booking) ([]notification.EventType, error) {
		if b.Status != StatusPending {
			return nil, ErrInvalidTransition
		}
		if b.PaymentStatus != PaymentPaid {
			return nil, ErrPaymentNotSettled
		}
		return moveTo(StatusConfirmed, notification.EventBookingConfirmed)(b)
	})
}

func (s *service) Cancel(ctx context.Context, id string, actor auth.Actor) (*Booking, error) {
	return s.transition(ctx, id, func(b *Booking) ([]notification.EventType, error) {
		if !actor.CanAccess(b.UserID) {
			return nil, ErrPermissionDenied
		}
		// Payment status is left for the payment collaborator to refund.
		return moveTo(StatusCancelled, notification.EventBookingCancelled)(b)
	})
}

func (s *service) Start(ctx context.Context, id string) (*Booking, error) {
	return s.transition(ctx, id, moveTo(StatusActive, notification.EventBookingStarted))
}

func (s *service) Complete(ctx context.Context, id string) (*Booking, error) {
	return s.transition(ctx, id, moveTo(StatusCompleted, notification.EventBookingCompleted))
}

func (s *service) RecordPayment(ctx context.Context, id string, status PaymentStatus, autoConfirm bool) (*Booking, error) {
	if _, err := ParsePaymentStatus(string(status)); err != nil {
		return nil, err
	}

	return s.transition(ctx, id, func(b *Booking) ([]notification.EventType, error) {
		if !b.PaymentStatus.CanTransitionTo(status) {
			return nil, ErrInvalidPaymentTransition
		}
		switch {
		case status == PaymentRefunded && b.Status != StatusCancelled:
			return nil, ErrRefundRequiresCancel
		case status != PaymentRefunded && b.Status == StatusCancelled:
			return nil, ErrInvalidPaymentTransition
		}

		b.PaymentStatus = status
		events := []notification.EventType{notification.EventPaymentUpdated}
		if autoConfirm && status == PaymentPaid && b.Status == StatusPending {
			b.Status = StatusConfirmed
			events = append(events, notification.EventBookingConfirmed)
		}
		return events, nil
	})
}

func (s *service) CheckAvailability(ctx context.Context, vehicleID string, start, end time.Time) (bool, error) {
	start, end = DateOnly(start), DateOnly(end)
	if !start.Before(end) {
		return false, ErrInvalidDateRange
	}

	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			return false, ErrVehicleNotFound
		}
		return false, err
	}

	lookup := s.cache.Get(ctx, vehicleID, start, end)
	if lookup.Hit {
		return lookup.Available, nil
	}

	overlap, err := s.repo.HasOverlap(ctx, vehicleID, start, end)
	if err != nil {
		return false, err
	}
	s.cache.Set(ctx, vehicleID, start, end, lookup, !overlap)
	return !overlap, nil
}

func (s *service) Get(ctx context.Context, id string, actor auth.Actor) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(b.UserID) {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter, actor auth.Actor) ([]*Booking, int, error) {
	if !actor.IsAdmin {
		filter.UserID = actor.UserID
	}
	if filter.Status != "" {
		if _, err := ParseStatus(string(filter.Status)); err != nil {
			return nil, 0, err
		}
	}
	if filter.PaymentStatus != "" {
		if _, err := ParsePaymentStatus(string(filter.PaymentStatus)); err != nil {
			return nil, 0, err
		}
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, 0, ErrInvalidDateRange
	}
	return s.repo.List(ctx, filter)
}

// afterWrite runs once the transaction has committed. Neither step can
// fail the request.
func (s *service) afterWrite(ctx context.Context, b *Booking, events ...notification.EventType) {
	s.cache.Invalidate(ctx, b.VehicleID)

	for _, t := range events {
		ev := notification.BookingEvent{
			Type:          t,
			BookingID:     b.ID,
			UserID:        b.UserID,
			VehicleID:     b.VehicleID,
			Status:        string(b.Status),
			PaymentStatus: string(b.PaymentStatus),
			TotalAmount:   b.TotalAmount,
			StartDate:     b.StartDate.Format(time.DateOnly),
			EndDate:       b.EndDate.Format(time.DateOnly),
			OccurredAt:    s.now().UTC(),
		}
		if err := s.publisher.Publish(ctx, ev); err != nil {
			log.Printf("publish %s for booking %s failed: %v", t, b.ID, err)
		}
	}
}
