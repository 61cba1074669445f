package response

import (
	"time"

	"movie-booking/internal/data/entity"
)

type SeatResponse struct {
	Label string  `json:"label"`
	Row   string  `json:"row"`
	Tier  string  `json:"tier"`
	Price float64 `json:"price"`
	State string  `json:"state"`
}

type SeatMapResponse struct {
	ShowingID string         `json:"showing_id"`
	Seats     []SeatResponse `json:"seats"`
	Available int            `json:"available"`
}

// SeatsToMapResponse projects seat rows into the public map. Held seats
// whose TTL already elapsed are presented as available; the database
// catches up lazily.
func SeatsToMapResponse(showingID string, seats []*entity.ShowingSeat, now time.Time) SeatMapResponse {
	out := SeatMapResponse{
		ShowingID: showingID,
		Seats:     make([]SeatResponse, 0, len(seats)),
	}
	for _, s := range seats {
		state := s.State
		if state == entity.SeatHeld && s.HoldExpiresAt != nil && !now.Before(*s.HoldExpiresAt) {
			state = entity.SeatAvailable
		}
		if state == entity.SeatAvailable {
			out.Available++
		}
		out.Seats = append(out.Seats, SeatResponse{
			Label: s.SeatLabel,
			Row:   s.SeatRow,
			Tier:  string(s.Tier),
			Price: s.Price,
			State: string(state),
		})
	}
	return out
}
