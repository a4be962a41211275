package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/booking"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// parseRange parses two YYYY-MM-DD values already checked by the datetime binding.
func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := request.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := request.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}

// Availability reports whether a vehicle is free for a date range. Public.
func (h *Handler) Availability(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	var q DateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	start, end, err := parseRange(q.StartDate, q.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), uri.ID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		VehicleID: uri.ID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Available: available,
	})
}

func (h *Handler) Quote(c *gin.Context) {
	var body QuoteBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}
	start, end, err := parseRange(body.StartDate, body.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	q, err := h.service.Quote(c.Request.Context(), booking.QuoteRequest{
		VehicleID:    body.VehicleID,
		StartDate:    start,
		EndDate:      end,
		DiscountCode: body.DiscountCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewQuoteResponse(q))
}

// Create books a vehicle for the authenticated user.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}
	start, end, err := parseRange(body.StartDate, body.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		VehicleID:       body.VehicleID,
		UserID:          auth.GetActor(c).UserID,
		StartDate:       start,
		EndDate:         end,
		PickupLocation:  body.PickupLocation,
		DropoffLocation: body.DropoffLocation,
		DiscountCode:    body.DiscountCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// List returns the caller's bookings, or any bookings for admins.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	from, err := request.ParseOptionalDate(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	to, err := request.ParseOptionalDate(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	filter := booking.Filter{
		UserID:        req.UserID,
		VehicleID:     req.VehicleID,
		Status:        booking.Status(req.Status),
		PaymentStatus: booking.PaymentStatus(req.PaymentStatus),
		From:          from,
		To:            to,
		Page:          req.Page,
		PageSize:      req.PageSize,
		SortBy:        req.SortBy,
		SortOrder:     strings.ToUpper(req.SortOrder),
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter, auth.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.Get(c.Request.Context(), uri.ID, auth.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	h.apply(c, func(c *gin.Context, id string) (*booking.Booking, error) {
		return h.service.Cancel(c.Request.Context(), id, auth.GetActor(c))
	})
}

// Confirm, Start and Complete are System Admin only.
func (h *Handler) Confirm(c *gin.Context) {
	h.apply(c, func(c *gin.Context, id string) (*booking.Booking, error) {
		return h.service.Confirm(c.Request.Context(), id)
	})
}

func (h *Handler) Start(c *gin.Context) {
	h.apply(c, func(c *gin.Context, id string) (*booking.Booking, error) {
		return h.service.Start(c.Request.Context(), id)
	})
}

func (h *Handler) Complete(c *gin.Context) {
	h.apply(c, func(c *gin.Context, id string) (*booking.Booking, error) {
		return h.service.Complete(c.Request.Context(), id)
	})
}

// RecordPayment applies an outcome reported by the payment provider. System Admin only.
func (h *Handler) RecordPayment(c *gin.Context) {
	var body RecordPaymentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
		return
	}

	h.apply(c, func(c *gin.Context, id string) (*booking.Booking, error) {
		return h.service.RecordPayment(c.Request.Context(), id, booking.PaymentStatus(body.PaymentStatus), body.AutoConfirm)
	})
}

// apply binds the booking ID and writes the result of a state change.
func (h *Handler) apply(c *gin.Context, op func(c *gin.Context, id string) (*booking.Booking, error)) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := op(c, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}
