package booking

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// BlockingStatuses hold the vehicle for their date range.
var BlockingStatuses = []Status{StatusPending, StatusConfirmed, StatusActive}

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// IsBlocking reports whether a booking in this status occupies the vehicle.
func (s Status) IsBlocking() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusActive:
		return true
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// IsTerminal reports whether no transition leaves this status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo encodes the lifecycle:
//
//	pending -> confirmed -> active -> completed
//	pending, confirmed -> cancelled
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusActive || next == StatusCancelled
	case StatusActive:
		return next == StatusCompleted
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// PaymentStatus is reported by the payment collaborator.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch p := PaymentStatus(s); p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return p, nil
	}
	return "", ErrInvalidPaymentStatus
}

// CanTransitionTo encodes the payment flow:
//
//	pending -> paid | failed
//	failed  -> paid | pending (retry)
//	paid    -> refunded
func (p PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch p {
	case PaymentPending:
		return next == PaymentPaid || next == PaymentFailed
	case PaymentFailed:
		return next == PaymentPaid || next == PaymentPending
	case PaymentPaid:
		return next == PaymentRefunded
	case PaymentRefunded:
		return false
	}
	return false
}
