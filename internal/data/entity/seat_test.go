package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatTemplateLayout(t *testing.T) {
	t.Parallel()

	seats := SeatTemplate()
	assert.Len(t, seats, 120)

	byLabel := make(map[string]TemplateSeat, len(seats))
	for _, seat := range seats {
		byLabel[seat.Label] = seat
	}

	// Rows A-C premium, D-G regular, H-J economy.
	assert.Equal(t, TierPremium, byLabel["A1"].Tier)
	assert.Equal(t, TierPremium, byLabel["C12"].Tier)
	assert.Equal(t, TierRegular, byLabel["D1"].Tier)
	assert.Equal(t, TierRegular, byLabel["G6"].Tier)
	assert.Equal(t, TierEconomy, byLabel["H1"].Tier)
	assert.Equal(t, TierEconomy, byLabel["J12"].Tier)

	assert.Equal(t, 300.0, byLabel["B3"].Price)
	assert.Equal(t, 200.0, byLabel["E7"].Price)
	assert.Equal(t, 150.0, byLabel["I4"].Price)
}

func TestTierPrice(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 300.0, TierPrice(TierPremium))
	assert.Equal(t, 200.0, TierPrice(TierRegular))
	assert.Equal(t, 150.0, TierPrice(TierEconomy))
	assert.Equal(t, 200.0, TierPrice(SeatTier("unknown")))
}
