package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SeatTier string

const (
	TierPremium SeatTier = "premium"
	TierRegular SeatTier = "regular"
	TierEconomy SeatTier = "economy"
)

type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatHeld      SeatState = "held"
	SeatBooked    SeatState = "booked"
)

// TierPrice returns the ticket price for a seat tier.
func TierPrice(tier SeatTier) float64 {
	switch tier {
	case TierPremium:
		return 300
	case TierEconomy:
		return 150
	default:
		return 200
	}
}

// ShowingSeat is the authoritative per-showing seat record. At most one
// non-expired hold or booking owns a seat at any time; booked is terminal
// until a cancellation releases it. Version increments on every state
// change.
type ShowingSeat struct {
	BaseNoDelete
	ShowingID     uuid.UUID  `db:"showing_id"`
	SeatLabel     string     `db:"seat_label"` // A1, B7, ...
	SeatRow       string     `db:"seat_row"`
	SeatColumn    int        `db:"seat_column"`
	Tier          SeatTier   `db:"tier"`
	Price         float64    `db:"price"`
	State         SeatState  `db:"state"`
	HoldToken     *uuid.UUID `db:"hold_token"`
	HoldExpiresAt *time.Time `db:"hold_expires_at"`
	Version       int64      `db:"version"`
}

// Seat map template: rows A-J, 12 seats per row. The first three rows are
// premium, the last three economy.
const (
	templateRows    = "ABCDEFGHIJ"
	templateColumns = 12
)

type TemplateSeat struct {
	Label  string
	Row    string
	Column int
	Tier   SeatTier
	Price  float64
}

// SeatTemplate enumerates all seats a new showing must be seeded with.
func SeatTemplate() []TemplateSeat {
	seats := make([]TemplateSeat, 0, len(templateRows)*templateColumns)
	for ri, row := range templateRows {
		tier := TierRegular
		if ri < 3 {
			tier = TierPremium
		} else if ri >= len(templateRows)-3 {
			tier = TierEconomy
		}
		for col := 1; col <= templateColumns; col++ {
			seats = append(seats, TemplateSeat{
				Label:  fmt.Sprintf("%c%d", row, col),
				Row:    string(row),
				Column: col,
				Tier:   tier,
				Price:  TierPrice(tier),
			})
		}
	}
	return seats
}
