package booking

import (
	"time"
)

const secondsPerDay = 24 * 60 * 60

// MaxRentalDays caps the length of a single booking.
const MaxRentalDays = 365

// DateOnly truncates t to UTC midnight of its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TotalDays is the number of rental days in [start, end), rounded up, at least 1.
// Counted on Unix seconds because time.Duration saturates after ~292 years.
func TotalDays(start, end time.Time) int {
	secs := end.Unix() - start.Unix()
	days := secs / secondsPerDay
	if secs%secondsPerDay > 0 {
		days++
	}
	return int(max(days, 1))
}

// Quote is the price of renting a vehicle for a date range. Amounts are in
// minor currency units.
type Quote struct {
	VehicleID      string
	StartDate      time.Time
	EndDate        time.Time
	TotalDays      int
	PricePerDay    int64
	Subtotal       int64
	DiscountCode   string
	DiscountAmount int64
	TotalAmount    int64
}

// NewQuote prices the range. The discount is clamped to [0, subtotal] so the
// total never goes negative.
func NewQuote(vehicleID string, start, end time.Time, pricePerDay int64, discountCode string, discountAmount int64) Quote {
	days := TotalDays(start, end)
	subtotal := int64(days) * pricePerDay
	discountAmount = max(0, min(discountAmount, subtotal))

	return Quote{
		VehicleID:      vehicleID,
		StartDate:      start,
		EndDate:        end,
		TotalDays:      days,
		PricePerDay:    pricePerDay,
		Subtotal:       subtotal,
		DiscountCode:   discountCode,
		DiscountAmount: discountAmount,
		TotalAmount:    subtotal - discountAmount,
	}
}
