package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound                 = apperror.Wrap(apperror.ErrNotFound, http.StatusNotFound, "booking not found")
	ErrVehicleNotFound          = apperror.Wrap(apperror.ErrNotFound, http.StatusNotFound, "vehicle not found")
	ErrVehicleUnavailable       = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "vehicle is not available for rent")
	ErrInvalidDateRange         = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "start_date must be before end_date")
	ErrRentalTooLong            = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "rentals are limited to 365 days")
	ErrDateInPast               = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "cannot book dates in the past")
	ErrInvalidStatus            = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "invalid booking status")
	ErrInvalidPaymentStatus     = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "invalid payment status")
	ErrDateConflict             = apperror.Wrap(apperror.ErrConflict, http.StatusConflict, "vehicle is already booked for these dates")
	ErrInvalidTransition        = apperror.Wrap(apperror.ErrInvalidState, http.StatusConflict, "booking status does not allow this operation")
	ErrPaymentNotSettled        = apperror.Wrap(apperror.ErrInvalidState, http.StatusConflict, "booking must be paid before confirmation")
	ErrInvalidPaymentTransition = apperror.Wrap(apperror.ErrInvalidState, http.StatusConflict, "payment status does not allow this change")
	ErrRefundRequiresCancel     = apperror.Wrap(apperror.ErrInvalidState, http.StatusConflict, "only cancelled bookings can be refunded")
	ErrPermissionDenied         = apperror.Wrap(apperror.ErrForbidden, http.StatusForbidden, "permission denied")
)

// Booking reserves a vehicle for [StartDate, EndDate). Dates are UTC
// midnights; amounts are minor currency units.
type Booking struct {
	ID              string
	VehicleID       string
	UserID          string
	StartDate       time.Time
	EndDate         time.Time
	Status          Status
	PaymentStatus   PaymentStatus
	TotalDays       int
	PricePerDay     int64
	Subtotal        int64
	DiscountCode    *string
	DiscountAmount  int64
	TotalAmount     int64
	PickupLocation  string
	DropoffLocation string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Overlaps reports whether b holds the vehicle on any day of [start, end).
// Adjacent ranges (b.EndDate == start) do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.Status.IsBlocking() && b.StartDate.Before(end) && b.EndDate.After(start)
}

type Filter struct {
	UserID        string
	VehicleID     string
	Status        Status
	PaymentStatus PaymentStatus
	// Bookings intersecting [From, To) when set.
	From *time.Time
	To   *time.Time

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
