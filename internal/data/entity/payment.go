package entity

import (
	"github.com/google/uuid"
)

// Payment records the gateway interaction behind a booking.
type Payment struct {
	Base
	BookingID uuid.UUID     `db:"booking_id"`
	IntentID  string        `db:"intent_id"`
	Amount    float64       `db:"amount"`
	Method    string        `db:"method"`
	Status    PaymentStatus `db:"status"`
}
