package response

import (
	"movie-booking/internal/data/entity"
)

type MovieResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Year        int     `json:"year"`
	Ratings     float64 `json:"ratings"`
	Description *string `json:"description,omitempty"`
	PosterURL   *string `json:"poster_url,omitempty"`
}

type TheaterResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:          movie.ID.String(),
		Title:       movie.Title,
		Genre:       movie.Genre,
		Year:        movie.Year,
		Ratings:     movie.Ratings,
		Description: movie.Description,
		PosterURL:   movie.PosterURL,
	}
}

func TheaterToResponse(theater *entity.Theater) TheaterResponse {
	return TheaterResponse{
		ID:       theater.ID.String(),
		Name:     theater.Name,
		Location: theater.Location,
	}
}
