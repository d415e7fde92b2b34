package entity

import (
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusUpcoming        BookingStatus = "upcoming"
	BookingStatusCompleted       BookingStatus = "completed"
	BookingStatusCancelled       BookingStatus = "cancelled"
	BookingStatusRefundInitiated BookingStatus = "refund_initiated"
	BookingStatusRefundProcessed BookingStatus = "refund_processed"
	BookingStatusRefundCompleted BookingStatus = "refund_completed"
	BookingStatusRefundFailed    BookingStatus = "refund_failed"
)

// Valid reports whether s belongs to the closed status set.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusUpcoming,
		BookingStatusCompleted,
		BookingStatusCancelled,
		BookingStatusRefundInitiated,
		BookingStatusRefundProcessed,
		BookingStatusRefundCompleted,
		BookingStatusRefundFailed:
		return true
	}
	return false
}

// RefundStatus reports whether s is one of the refund lifecycle statuses,
// i.e. a legal target for a manual override (cancelled re-opens a case).
func (s BookingStatus) RefundStatus() bool {
	switch s {
	case BookingStatusCancelled,
		BookingStatusRefundInitiated,
		BookingStatusRefundProcessed,
		BookingStatusRefundCompleted,
		BookingStatusRefundFailed:
		return true
	}
	return false
}

// RefundProcessable reports whether a refund may be submitted to the gateway
// from this status. Only a freshly cancelled booking or a previously failed
// attempt can go through the gateway; everything else is rejected up front.
func (s BookingStatus) RefundProcessable() bool {
	return s == BookingStatusCancelled || s == BookingStatusRefundFailed
}

// SLAEligible reports whether the case is still waiting on operator action
// and therefore subject to urgency classification.
func (s BookingStatus) SLAEligible() bool {
	return s == BookingStatusCancelled || s == BookingStatusRefundInitiated
}

// Booking mirrors the row owned by the booking record store. The refund core
// only ever reads it and advances its status; service_price is immutable.
type Booking struct {
	Base
	SalonID      *string         `db:"salon_id"`
	SalonName    string          `db:"salon_name"`
	ServiceName  string          `db:"service_name"`
	BookingDate  *string         `db:"booking_date"`
	BookingTime  *string         `db:"booking_time"`
	ServicePrice decimal.Decimal `db:"service_price"`
	PaymentID    *string         `db:"payment_id"`
	Status       BookingStatus   `db:"status"`
}

// RefundEligible reports whether the booking can enter the refund lifecycle:
// processable status plus a captured payment to refund against.
func (b *Booking) RefundEligible() bool {
	return b.Status.RefundProcessable() && b.PaymentID != nil && *b.PaymentID != ""
}
