package request

type CreateMovieRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Genre       string  `json:"genre" validate:"required,min=1,max=50"`
	Year        int     `json:"year" validate:"required,min=1888,max=2100"`
	Ratings     float64 `json:"ratings" validate:"min=0,max=10"`
	Description *string `json:"description,omitempty"`
	PosterURL   *string `json:"poster_url,omitempty" validate:"omitempty,url"`
}

type UpdateMovieRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Genre       string  `json:"genre" validate:"required,min=1,max=50"`
	Year        int     `json:"year" validate:"required,min=1888,max=2100"`
	Ratings     float64 `json:"ratings" validate:"min=0,max=10"`
	Description *string `json:"description,omitempty"`
	PosterURL   *string `json:"poster_url,omitempty" validate:"omitempty,url"`
}
