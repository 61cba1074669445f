package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// LegalTransition enforces the append-only booking status machine:
// pending->confirmed, confirmed->completed, confirmed->cancelled.
func LegalTransition(from, to BookingStatus) bool {
	switch from {
	case BookingStatusPending:
		return to == BookingStatusConfirmed
	case BookingStatusConfirmed:
		return to == BookingStatusCompleted || to == BookingStatusCancelled
	default:
		return false
	}
}

type Booking struct {
	Base
	BookingID     string        `db:"booking_id"` // public-facing reference
	HoldToken     uuid.UUID     `db:"hold_token"` // idempotency key
	ShowingID     uuid.UUID     `db:"showing_id"`
	UserID        uuid.UUID     `db:"user_id"`
	TotalAmount   float64       `db:"total_amount"`
	PaymentMethod string        `db:"payment_method"`
	Status        BookingStatus `db:"status"`
	PaymentStatus PaymentStatus `db:"payment_status"`
}

type BookingSeat struct {
	BaseSimple
	BookingID uuid.UUID `db:"booking_id"`
	SeatLabel string    `db:"seat_label"`
	UnitPrice float64   `db:"unit_price"`
}

// BookingStats is the read-side aggregate over the ledger.
type BookingStats struct {
	TotalBookings int64                   `json:"total_bookings"`
	TotalRevenue  float64                 `json:"total_revenue"`
	CountByStatus map[BookingStatus]int64 `json:"count_by_status"`
}
