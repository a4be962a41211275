package http

import (
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	VehicleID     string `form:"vehicle_id" binding:"omitempty,uuid"`
	UserID        string `form:"user_id" binding:"omitempty,uuid"` // admins only
	Status        string `form:"status" binding:"omitempty,oneof=pending confirmed active completed cancelled"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending paid failed refunded"`
	From          string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To            string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	SortBy        string `form:"sort_by" binding:"omitempty,oneof=start_date end_date created_at total_amount"`
}

// DateRangeQuery is the query of the availability endpoint.
type DateRangeQuery struct {
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"required,datetime=2006-01-02"`
}

type QuoteBookingRequest struct {
	VehicleID    string `json:"vehicle_id" binding:"required,uuid"`
	StartDate    string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate      string `json:"end_date" binding:"required,datetime=2006-01-02"`
	DiscountCode string `json:"discount_code" binding:"omitempty,max=32"`
}

type CreateBookingRequest struct {
	QuoteBookingRequest
	PickupLocation  string `json:"pickup_location" binding:"max=200"`
	DropoffLocation string `json:"dropoff_location" binding:"max=200"`
}

type RecordPaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=pending paid failed refunded"`
	AutoConfirm   bool   `json:"auto_confirm"`
}

type BookingResponse struct {
	ID              string    `json:"id"`
	VehicleID       string    `json:"vehicle_id"`
	UserID          string    `json:"user_id"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"payment_status"`
	TotalDays       int       `json:"total_days"`
	PricePerDay     int64     `json:"price_per_day"`
	Subtotal        int64     `json:"subtotal"`
	DiscountCode    *string   `json:"discount_code"`
	DiscountAmount  int64     `json:"discount_amount"`
	TotalAmount     int64     `json:"total_amount"`
	PickupLocation  string    `json:"pickup_location"`
	DropoffLocation string    `json:"dropoff_location"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		VehicleID:       b.VehicleID,
		UserID:          b.UserID,
		StartDate:       b.StartDate.Format(request.DateLayout),
		EndDate:         b.EndDate.Format(request.DateLayout),
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		TotalDays:       b.TotalDays,
		PricePerDay:     b.PricePerDay,
		Subtotal:        b.Subtotal,
		DiscountCode:    b.DiscountCode,
		DiscountAmount:  b.DiscountAmount,
		TotalAmount:     b.TotalAmount,
		PickupLocation:  b.PickupLocation,
		DropoffLocation: b.DropoffLocation,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

type QuoteResponse struct {
	VehicleID      string  `json:"vehicle_id"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	TotalDays      int     `json:"total_days"`
	PricePerDay    int64   `json:"price_per_day"`
	Subtotal       int64   `json:"subtotal"`
	DiscountCode   *string `json:"discount_code"`
	DiscountAmount int64   `json:"discount_amount"`
	TotalAmount    int64   `json:"total_amount"`
}

func NewQuoteResponse(q *booking.Quote) QuoteResponse {
	resp := QuoteResponse{
		VehicleID:      q.VehicleID,
		StartDate:      q.StartDate.Format(request.DateLayout),
		EndDate:        q.EndDate.Format(request.DateLayout),
		TotalDays:      q.TotalDays,
		PricePerDay:    q.PricePerDay,
		Subtotal:       q.Subtotal,
		DiscountAmount: q.DiscountAmount,
		TotalAmount:    q.TotalAmount,
	}
	if q.DiscountCode != "" {
		code := q.DiscountCode
		resp.DiscountCode = &code
	}
	return resp
}

type AvailabilityResponse struct {
	VehicleID string `json:"vehicle_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Available bool   `json:"available"`
}
