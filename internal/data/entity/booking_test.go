package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegalTransition(t *testing.T) {
	t.Parallel()

	legal := []struct{ from, to BookingStatus }{
		{BookingStatusPending, BookingStatusConfirmed},
		{BookingStatusConfirmed, BookingStatusCompleted},
		{BookingStatusConfirmed, BookingStatusCancelled},
	}
	for _, tc := range legal {
		assert.True(t, LegalTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	illegal := []struct{ from, to BookingStatus }{
		{BookingStatusPending, BookingStatusCompleted},
		{BookingStatusPending, BookingStatusCancelled},
		{BookingStatusConfirmed, BookingStatusPending},
		{BookingStatusCompleted, BookingStatusCancelled},
		{BookingStatusCancelled, BookingStatusConfirmed},
		{BookingStatusCancelled, BookingStatusCancelled},
	}
	for _, tc := range illegal {
		assert.False(t, LegalTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
