package repository

import (
	"context"
	"fmt"
	"time"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ShowingFilter narrows ListShowings. Zero values match everything.
type ShowingFilter struct {
	MovieID   *uuid.UUID
	TheaterID *uuid.UUID
	Date      *time.Time
}

type ShowingRepository interface {
	Create(ctx context.Context, showing *entity.Showing) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Showing, error)
	FindAll(ctx context.Context, filter ShowingFilter) ([]*entity.Showing, error)
}

type showingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowingRepository(db database.PgxIface, log *zap.Logger) ShowingRepository {
	return &showingRepository{
		db:  db,
		log: log.With(zap.String("repository", "showing")),
	}
}

func (r *showingRepository) Create(ctx context.Context, showing *entity.Showing) error {
	query := `
		INSERT INTO showings (id, movie_id, theater_id, show_date, show_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		showing.ID,
		showing.MovieID,
		showing.TheaterID,
		showing.ShowDate,
		showing.ShowTime,
		showing.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create showing",
			zap.Error(err),
			zap.String("movie_id", showing.MovieID.String()),
			zap.String("theater_id", showing.TheaterID.String()),
		)
		return fmt.Errorf("create showing: %w", err)
	}

	return nil
}

func (r *showingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showing, error) {
	query := `
		SELECT id, movie_id, theater_id, show_date, show_time, created_at
		FROM showings
		WHERE id = $1
	`

	var showing entity.Showing
	err := r.db.QueryRow(ctx, query, id).Scan(
		&showing.ID,
		&showing.MovieID,
		&showing.TheaterID,
		&showing.ShowDate,
		&showing.ShowTime,
		&showing.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showing by ID",
			zap.Error(err),
			zap.String("showing_id", id.String()),
		)
		return nil, fmt.Errorf("find showing by ID %s: %w", id.String(), err)
	}

	return &showing, nil
}

func (r *showingRepository) FindAll(ctx context.Context, filter ShowingFilter) ([]*entity.Showing, error) {
	query := `
		SELECT id, movie_id, theater_id, show_date, show_time, created_at
		FROM showings
		WHERE ($1::uuid IS NULL OR movie_id = $1)
		  AND ($2::uuid IS NULL OR theater_id = $2)
		  AND ($3::date IS NULL OR show_date = $3)
		ORDER BY show_date, show_time
	`

	rows, err := r.db.Query(ctx, query, filter.MovieID, filter.TheaterID, filter.Date)
	if err != nil {
		r.log.Error("Failed to find showings", zap.Error(err))
		return nil, fmt.Errorf("find showings: %w", err)
	}
	defer rows.Close()

	var showings []*entity.Showing
	for rows.Next() {
		var showing entity.Showing
		err := rows.Scan(
			&showing.ID,
			&showing.MovieID,
			&showing.TheaterID,
			&showing.ShowDate,
			&showing.ShowTime,
			&showing.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan showing row", zap.Error(err))
			return nil, fmt.Errorf("scan showing row: %w", err)
		}
		showings = append(showings, &showing)
	}

	return showings, nil
}
