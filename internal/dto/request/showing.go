package request

type CreateShowingRequest struct {
	MovieID   string `json:"movie_id" validate:"required,uuid4"`
	TheaterID string `json:"theater_id" validate:"required,uuid4"`
	ShowDate  string `json:"show_date" validate:"required,datetime=2006-01-02"`
	ShowTime  string `json:"show_time" validate:"required,datetime=15:04"`
}

// ListShowingsRequest is populated from query parameters; empty fields match
// everything.
type ListShowingsRequest struct {
	MovieID   string `json:"movie_id" validate:"omitempty,uuid4"`
	TheaterID string `json:"theater_id" validate:"omitempty,uuid4"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}
