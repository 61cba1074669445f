package entity

import (
	"time"

	"github.com/google/uuid"
)

// Showing is a bookable (movie, theater, date, time) tuple. Immutable once
// created; its seat rows define the universe of valid seat labels.
type Showing struct {
	BaseSimple
	MovieID   uuid.UUID `db:"movie_id"`
	TheaterID uuid.UUID `db:"theater_id"`
	ShowDate  time.Time `db:"show_date"`
	ShowTime  string    `db:"show_time"` // "19:30"
}

// StartsAt combines date and time for past-showing checks.
func (s *Showing) StartsAt() time.Time {
	t, err := time.Parse("15:04", s.ShowTime)
	if err != nil {
		return s.ShowDate
	}
	return time.Date(
		s.ShowDate.Year(), s.ShowDate.Month(), s.ShowDate.Day(),
		t.Hour(), t.Minute(), 0, 0, s.ShowDate.Location(),
	)
}
