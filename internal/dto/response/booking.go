package response

import (
	"time"

	"movie-booking/internal/data/entity"
)

type BookingSeatResponse struct {
	SeatLabel string  `json:"seat_label"`
	UnitPrice float64 `json:"unit_price"`
}

type BookingResponse struct {
	ID            string                `json:"id"`
	BookingID     string                `json:"booking_id"`
	ShowingID     string                `json:"showing_id"`
	Status        string                `json:"status"`
	PaymentStatus string                `json:"payment_status"`
	PaymentMethod string                `json:"payment_method,omitempty"`
	TotalAmount   float64               `json:"total_amount"`
	Seats         []BookingSeatResponse `json:"seats,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

type BookingStatsResponse struct {
	TotalBookings int64            `json:"total_bookings"`
	TotalRevenue  float64          `json:"total_revenue"`
	CountByStatus map[string]int64 `json:"count_by_status"`
}

func BookingToResponse(b *entity.Booking, seats []entity.BookingSeat) BookingResponse {
	out := BookingResponse{
		ID:            b.ID.String(),
		BookingID:     b.BookingID,
		ShowingID:     b.ShowingID.String(),
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		PaymentMethod: b.PaymentMethod,
		TotalAmount:   b.TotalAmount,
		CreatedAt:     b.CreatedAt,
	}
	for i := range seats {
		out.Seats = append(out.Seats, BookingSeatResponse{
			SeatLabel: seats[i].SeatLabel,
			UnitPrice: seats[i].UnitPrice,
		})
	}
	return out
}

func StatsToResponse(stats *entity.BookingStats) BookingStatsResponse {
	out := BookingStatsResponse{
		TotalBookings: stats.TotalBookings,
		TotalRevenue:  stats.TotalRevenue,
		CountByStatus: make(map[string]int64, len(stats.CountByStatus)),
	}
	for status, n := range stats.CountByStatus {
		out.CountByStatus[string(status)] = n
	}
	return out
}
