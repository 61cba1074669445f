package usecase

import (
	"context"
	"testing"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/internal/dto/request"
	"movie-booking/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStatusCancelReturnsSeatsAndRefunds(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, 5*time.Minute)
	ctx := context.Background()

	hold := env.startHold(t, "A1", "A2")
	booking := env.payAndConfirm(t, hold)

	updated, err := env.ledger.UpdateStatus(ctx, booking.BookingID, &request.UpdateBookingStatusRequest{
		Status: string(entity.BookingStatusCancelled),
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusCancelled), updated.Status)
	assert.Equal(t, string(entity.PaymentStatusRefunded), updated.PaymentStatus)

	// Cancellation puts the seats back on the market.
	assert.Equal(t, entity.SeatAvailable, env.seatState(t, "A1"))
	assert.Equal(t, entity.SeatAvailable, env.seatState(t, "A2"))
	env.startHold(t, "A1")

	require.Len(t, env.publisher.cancelled, 1)
	assert.Equal(t, booking.BookingID, env.publisher.cancelled[0].BookingID)
	assert.ElementsMatch(t, []string{"A1", "A2"}, env.publisher.cancelled[0].SeatLabels)
}

func TestUpdateStatusCompleted(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, 5*time.Minute)
	ctx := context.Background()

	booking := env.payAndConfirm(t, env.startHold(t, "B1"))

	updated, err := env.ledger.UpdateStatus(ctx, booking.BookingID, &request.UpdateBookingStatusRequest{
		Status: string(entity.BookingStatusCompleted),
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.BookingStatusCompleted), updated.Status)
	// Completion does not touch the payment.
	assert.Equal(t, string(entity.PaymentStatusSuccess), updated.PaymentStatus)
	assert.Equal(t, entity.SeatBooked, env.seatState(t, "B1"))
}

func TestUpdateStatusIllegalTransitions(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, 5*time.Minute)
	ctx := context.Background()

	booking := env.payAndConfirm(t, env.startHold(t, "C1"))

	_, err := env.ledger.UpdateStatus(ctx, booking.BookingID, &request.UpdateBookingStatusRequest{
		Status: string(entity.BookingStatusCancelled),
	})
	require.NoError(t, err)

	// Cancelled is terminal.
	for _, target := range []entity.BookingStatus{entity.BookingStatusCompleted, entity.BookingStatusConfirmed} {
		_, err := env.ledger.UpdateStatus(ctx, booking.BookingID, &request.UpdateBookingStatusRequest{
			Status: string(target),
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindIllegalTransition, apperr.KindOf(err))
	}
}

func TestGetBookingOwnership(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, 5*time.Minute)
	ctx := context.Background()

	booking := env.payAndConfirm(t, env.startHold(t, "D1"))

	got, err := env.ledger.GetBooking(ctx, env.userID, "customer", booking.BookingID)
	require.NoError(t, err)
	assert.Equal(t, booking.BookingID, got.BookingID)

	// Another customer cannot read it, an admin can.
	otherID := env.userID
	otherID[0] ^= 0xff
	_, err = env.ledger.GetBooking(ctx, otherID, "customer", booking.BookingID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = env.ledger.GetBooking(ctx, otherID, "admin", booking.BookingID)
	assert.NoError(t, err)
}

func TestListBookingsFilterByStatus(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, 5*time.Minute)
	ctx := context.Background()

	first := env.payAndConfirm(t, env.startHold(t, "E1"))
	env.payAndConfirm(t, env.startHold(t, "E2"))

	_, err := env.ledger.UpdateStatus(ctx, first.BookingID, &request.UpdateBookingStatusRequest{
		Status: string(entity.BookingStatusCancelled),
	})
	require.NoError(t, err)

	page := &request.PaginatedRequest{Page: 1, PerPage: 10}

	all, err := env.ledger.ListBookings(ctx, env.userID, "", page)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Pagination.Total)

	cancelled, err := env.ledger.ListBookings(ctx, env.userID, "cancelled", page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cancelled.Pagination.Total)
	require.Len(t, cancelled.Data, 1)
	assert.Equal(t, first.BookingID, cancelled.Data[0].BookingID)

	_, err = env.ledger.ListBookings(ctx, env.userID, "bogus", page)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestStatsExcludeCancelledRevenue(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, 5*time.Minute)
	ctx := context.Background()

	kept := env.payAndConfirm(t, env.startHold(t, "A1", "A2")) // 600 premium
	dropped := env.payAndConfirm(t, env.startHold(t, "H1"))    // 150 economy

	_, err := env.ledger.UpdateStatus(ctx, dropped.BookingID, &request.UpdateBookingStatusRequest{
		Status: string(entity.BookingStatusCancelled),
	})
	require.NoError(t, err)

	stats, err := env.ledger.Stats(ctx, &env.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, kept.TotalAmount, stats.TotalRevenue)
	assert.Equal(t, int64(1), stats.CountByStatus[string(entity.BookingStatusConfirmed)])
	assert.Equal(t, int64(1), stats.CountByStatus[string(entity.BookingStatusCancelled)])
}
