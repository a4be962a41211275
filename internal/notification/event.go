// Package notification publishes booking lifecycle events to RabbitMQ and
// consumes them in the notifier process.
package notification

import (
	"errors"
	"fmt"
	"time"
)

// QueueName is the durable queue carrying BookingEvent messages.
const QueueName = "booking.events"

type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingStarted   EventType = "booking.started"
	EventBookingCompleted EventType = "booking.completed"
	EventPaymentUpdated   EventType = "booking.payment_updated"
)

func (t EventType) Valid() bool {
	switch t {
	case EventBookingCreated, EventBookingConfirmed, EventBookingCancelled,
		EventBookingStarted, EventBookingCompleted, EventPaymentUpdated:
		return true
	}
	return false
}

// BookingEvent is the message body published for every booking write.
// Dates use the YYYY-MM-DD wire format.
type BookingEvent struct {
	Type          EventType `json:"type"`
	BookingID     string    `json:"booking_id"`
	UserID        string    `json:"user_id"`
	VehicleID     string    `json:"vehicle_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	TotalAmount   int64     `json:"total_amount"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	OccurredAt    time.Time `json:"occurred_at"`
}

var ErrMalformedEvent = errors.New("malformed booking event")

// Validate rejects events the notifier cannot act on.
func (e BookingEvent) Validate() error {
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, e.Type)
	}
	if e.BookingID == "" || e.UserID == "" {
		return fmt.Errorf("%w: missing booking_id or user_id", ErrMalformedEvent)
	}
	return nil
}

// LogLine renders the event as the single line the notifier writes.
func (e BookingEvent) LogLine() string {
	return fmt.Sprintf("[%s] %s | booking_id=%s | user_id=%s | vehicle_id=%s | %s..%s | status=%s | payment=%s | total=%d",
		e.OccurredAt.UTC().Format(time.RFC3339), e.Type, e.BookingID, e.UserID, e.VehicleID,
		e.StartDate, e.EndDate, e.Status, e.PaymentStatus, e.TotalAmount)
}
