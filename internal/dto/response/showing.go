package response

import (
	"movie-booking/internal/data/entity"
)

type ShowingResponse struct {
	ID        string `json:"id"`
	MovieID   string `json:"movie_id"`
	TheaterID string `json:"theater_id"`
	ShowDate  string `json:"show_date"`
	ShowTime  string `json:"show_time"`
}

// ShowingDetailResponse includes seat availability counts for listings.
type ShowingDetailResponse struct {
	ShowingResponse
	TotalSeats     int `json:"total_seats"`
	AvailableSeats int `json:"available_seats"`
}

func ShowingToResponse(s *entity.Showing) ShowingResponse {
	return ShowingResponse{
		ID:        s.ID.String(),
		MovieID:   s.MovieID.String(),
		TheaterID: s.TheaterID.String(),
		ShowDate:  s.ShowDate.Format("2006-01-02"),
		ShowTime:  s.ShowTime,
	}
}
