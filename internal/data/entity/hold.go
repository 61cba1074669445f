package entity

import (
	"time"

	"github.com/google/uuid"
)

type HoldStatus string

const (
	HoldActive    HoldStatus = "active"
	HoldConfirmed HoldStatus = "confirmed"
	HoldReleased  HoldStatus = "released"
	HoldExpired   HoldStatus = "expired"
)

// Hold is the time-limited lease a user acquires on a set of seats while
// paying. It is mutated only by the reservation flow.
type Hold struct {
	BaseSimple
	Token      uuid.UUID  `db:"token"`
	ShowingID  uuid.UUID  `db:"showing_id"`
	UserID     uuid.UUID  `db:"user_id"`
	SeatLabels []string   `db:"seat_labels"`
	Status     HoldStatus `db:"status"`
	ExpiresAt  time.Time  `db:"expires_at"`
}

// Expired reports whether the hold TTL has elapsed at the given instant.
func (h *Hold) Expired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}
