package repository

import (
	"context"
	"fmt"

	"movie-booking/internal/data/entity"
	"movie-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type HoldRepository interface {
	Create(ctx context.Context, hold *entity.Hold) error
	FindByToken(ctx context.Context, token uuid.UUID) (*entity.Hold, error)
	UpdateStatus(ctx context.Context, token uuid.UUID, from, to entity.HoldStatus) (bool, error)
	MarkExpired(ctx context.Context, tokens []uuid.UUID) error
}

type holdRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewHoldRepository(db database.PgxIface, log *zap.Logger) HoldRepository {
	return &holdRepository{
		db:  db,
		log: log.With(zap.String("repository", "hold")),
	}
}

func (r *holdRepository) Create(ctx context.Context, hold *entity.Hold) error {
	query := `
		INSERT INTO holds (id, token, showing_id, user_id, seat_labels, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		hold.ID,
		hold.Token,
		hold.ShowingID,
		hold.UserID,
		hold.SeatLabels,
		hold.Status,
		hold.ExpiresAt,
		hold.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create hold",
			zap.Error(err),
			zap.String("hold_token", hold.Token.String()),
			zap.String("showing_id", hold.ShowingID.String()),
		)
		return fmt.Errorf("create hold %s: %w", hold.Token.String(), err)
	}

	return nil
}

func (r *holdRepository) FindByToken(ctx context.Context, token uuid.UUID) (*entity.Hold, error) {
	query := `
		SELECT id, token, showing_id, user_id, seat_labels, status, expires_at, created_at
		FROM holds
		WHERE token = $1
	`

	var hold entity.Hold
	err := r.db.QueryRow(ctx, query, token).Scan(
		&hold.ID,
		&hold.Token,
		&hold.ShowingID,
		&hold.UserID,
		&hold.SeatLabels,
		&hold.Status,
		&hold.ExpiresAt,
		&hold.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find hold by token",
			zap.Error(err),
			zap.String("hold_token", token.String()),
		)
		return nil, fmt.Errorf("find hold by token %s: %w", token.String(), err)
	}

	return &hold, nil
}

// UpdateStatus moves a hold from one status to another. Returns false when
// the hold was not in the expected status, so callers can detect races.
func (r *holdRepository) UpdateStatus(ctx context.Context, token uuid.UUID, from, to entity.HoldStatus) (bool, error) {
	query := `UPDATE holds SET status = $3 WHERE token = $1 AND status = $2`

	result, err := r.db.Exec(ctx, query, token, from, to)
	if err != nil {
		r.log.Error("Failed to update hold status",
			zap.Error(err),
			zap.String("hold_token", token.String()),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("update hold %s status to %s: %w", token.String(), string(to), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *holdRepository) MarkExpired(ctx context.Context, tokens []uuid.UUID) error {
	if len(tokens) == 0 {
		return nil
	}

	query := `UPDATE holds SET status = 'expired' WHERE token = ANY($1) AND status = 'active'`

	_, err := r.db.Exec(ctx, query, tokens)
	if err != nil {
		r.log.Error("Failed to mark holds expired",
			zap.Error(err),
			zap.Int("count", len(tokens)),
		)
		return fmt.Errorf("mark holds expired: %w", err)
	}

	return nil
}
