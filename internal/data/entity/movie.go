package entity

type Movie struct {
	Base
	Title       string  `db:"title"`
	Genre       string  `db:"genre"`
	Year        int     `db:"year"`
	Ratings     float64 `db:"ratings"`
	Description *string `db:"description"`
	PosterURL   *string `db:"poster_url"`
}
