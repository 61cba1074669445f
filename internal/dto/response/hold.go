package response

import (
	"time"

	"movie-booking/internal/data/entity"
)

type HoldResponse struct {
	Token      string    `json:"token"`
	ShowingID  string    `json:"showing_id"`
	SeatLabels []string  `json:"seat_labels"`
	Total      float64   `json:"total"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type PaymentIntentResponse struct {
	IntentID     string            `json:"intent_id"`
	Amount       float64           `json:"amount"`
	Currency     string            `json:"currency"`
	ClientParams map[string]string `json:"client_params,omitempty"`
}

func HoldToResponse(h *entity.Hold, total float64) HoldResponse {
	return HoldResponse{
		Token:      h.Token.String(),
		ShowingID:  h.ShowingID.String(),
		SeatLabels: h.SeatLabels,
		Total:      total,
		Status:     string(h.Status),
		ExpiresAt:  h.ExpiresAt,
	}
}
