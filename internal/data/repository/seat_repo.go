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

// SeatRepository owns the showing_seats rows, the only shared mutable state
// in the booking flow. Every state change is a conditional UPDATE with the
// previous state in the predicate, so two racing writers can never both
// commit for the same seat.
type SeatRepository interface {
	CreateBatch(ctx context.Context, seats []*entity.ShowingSeat) error
	FindByShowingID(ctx context.Context, showingID uuid.UUID) ([]*entity.ShowingSeat, error)
	FindByLabels(ctx context.Context, showingID uuid.UUID, labels []string) ([]*entity.ShowingSeat, error)

	// TryHold transitions every requested seat from available (or expired
	// held) to held in one transaction. On a partial match nothing is
	// changed and the conflicting labels are returned.
	TryHold(ctx context.Context, showingID uuid.UUID, labels []string, token uuid.UUID, expiresAt time.Time) (conflicts []string, err error)

	// ConfirmHold books the seats of a still-valid hold. Returns the seat
	// labels that transitioned; an empty result means the hold no longer
	// owns any seats (expired, released, or unknown).
	ConfirmHold(ctx context.Context, token uuid.UUID) ([]string, error)

	// ReleaseHold frees held (not booked) seats. Idempotent.
	ReleaseHold(ctx context.Context, token uuid.UUID) ([]string, error)

	// ReleaseBooked frees booked seats on booking cancellation.
	ReleaseBooked(ctx context.Context, showingID uuid.UUID, labels []string) error

	// ReleaseExpired sweeps held seats whose hold TTL elapsed and returns
	// the tokens of the affected holds.
	ReleaseExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) CreateBatch(ctx context.Context, seats []*entity.ShowingSeat) error {
	if len(seats) == 0 {
		return nil
	}

	// Build batch insert
	query := `INSERT INTO showing_seats (id, showing_id, seat_label, seat_row, seat_column, tier, price, state, version, created_at, updated_at) VALUES `
	args := []interface{}{}

	for i, seat := range seats {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*11+1, i*11+2, i*11+3, i*11+4, i*11+5, i*11+6, i*11+7, i*11+8, i*11+9, i*11+10, i*11+11)

		args = append(args,
			seat.ID,
			seat.ShowingID,
			seat.SeatLabel,
			seat.SeatRow,
			seat.SeatColumn,
			seat.Tier,
			seat.Price,
			seat.State,
			seat.Version,
			seat.CreatedAt,
			seat.UpdatedAt,
		)
	}

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch seats",
			zap.Error(err),
			zap.Int("count", len(seats)),
		)
		return fmt.Errorf("create batch seats: %w", err)
	}

	return nil
}

const seatColumns = `id, showing_id, seat_label, seat_row, seat_column, tier, price, state, hold_token, hold_expires_at, version, created_at, updated_at`

func scanSeat(row pgx.Row) (*entity.ShowingSeat, error) {
	var seat entity.ShowingSeat
	err := row.Scan(
		&seat.ID,
		&seat.ShowingID,
		&seat.SeatLabel,
		&seat.SeatRow,
		&seat.SeatColumn,
		&seat.Tier,
		&seat.Price,
		&seat.State,
		&seat.HoldToken,
		&seat.HoldExpiresAt,
		&seat.Version,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *seatRepository) FindByShowingID(ctx context.Context, showingID uuid.UUID) ([]*entity.ShowingSeat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM showing_seats
		WHERE showing_id = $1
		ORDER BY seat_row, seat_column
	`

	rows, err := r.db.Query(ctx, query, showingID)
	if err != nil {
		r.log.Error("Failed to find seats by showing ID",
			zap.Error(err),
			zap.String("showing_id", showingID.String()),
		)
		return nil, fmt.Errorf("find seats by showing ID %s: %w", showingID.String(), err)
	}
	defer rows.Close()

	var seats []*entity.ShowingSeat
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, seat)
	}

	return seats, nil
}

func (r *seatRepository) FindByLabels(ctx context.Context, showingID uuid.UUID, labels []string) ([]*entity.ShowingSeat, error) {
	if len(labels) == 0 {
		return []*entity.ShowingSeat{}, nil
	}

	query := `
		SELECT ` + seatColumns + `
		FROM showing_seats
		WHERE showing_id = $1 AND seat_label = ANY($2)
		ORDER BY seat_row, seat_column
	`

	rows, err := r.db.Query(ctx, query, showingID, labels)
	if err != nil {
		r.log.Error("Failed to find seats by labels",
			zap.Error(err),
			zap.String("showing_id", showingID.String()),
			zap.Int("label_count", len(labels)),
		)
		return nil, fmt.Errorf("find seats by labels: %w", err)
	}
	defer rows.Close()

	var seats []*entity.ShowingSeat
	for rows.Next() {
		seat, err := scanSeat(rows)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("scan seat row: %w", err)
		}
		seats = append(seats, seat)
	}

	return seats, nil
}

func (r *seatRepository) TryHold(ctx context.Context, showingID uuid.UUID, labels []string, token uuid.UUID, expiresAt time.Time) ([]string, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin hold transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Compare-and-set on state per seat. An expired hold counts as
	// available, so stale holds are reclaimed inline.
	query := `
		UPDATE showing_seats
		SET state = 'held', hold_token = $3, hold_expires_at = $4,
		    version = version + 1, updated_at = NOW()
		WHERE showing_id = $1 AND seat_label = ANY($2)
		  AND (state = 'available'
		       OR (state = 'held' AND hold_expires_at <= NOW()))
		RETURNING seat_label
	`

	rows, err := tx.Query(ctx, query, showingID, labels, token, expiresAt)
	if err != nil {
		r.log.Error("Failed to hold seats",
			zap.Error(err),
			zap.String("showing_id", showingID.String()),
		)
		return nil, fmt.Errorf("hold seats: %w", err)
	}

	won := make(map[string]struct{}, len(labels))
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan held seat label: %w", err)
		}
		won[label] = struct{}{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read held seat labels: %w", err)
	}

	if len(won) != len(labels) {
		// At least one seat lost the race; the deferred rollback undoes
		// the partial update.
		var conflicts []string
		for _, label := range labels {
			if _, ok := won[label]; !ok {
				conflicts = append(conflicts, label)
			}
		}
		r.log.Info("Hold lost seat race",
			zap.String("showing_id", showingID.String()),
			zap.Strings("conflicts", conflicts),
		)
		return conflicts, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit hold transaction: %w", err)
	}

	return nil, nil
}

func (r *seatRepository) ConfirmHold(ctx context.Context, token uuid.UUID) ([]string, error) {
	query := `
		UPDATE showing_seats
		SET state = 'booked', hold_token = NULL, hold_expires_at = NULL,
		    version = version + 1, updated_at = NOW()
		WHERE hold_token = $1 AND state = 'held' AND hold_expires_at > NOW()
		RETURNING seat_label
	`

	rows, err := r.db.Query(ctx, query, token)
	if err != nil {
		r.log.Error("Failed to confirm hold",
			zap.Error(err),
			zap.String("hold_token", token.String()),
		)
		return nil, fmt.Errorf("confirm hold %s: %w", token.String(), err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scan confirmed seat label: %w", err)
		}
		labels = append(labels, label)
	}

	return labels, rows.Err()
}

func (r *seatRepository) ReleaseHold(ctx context.Context, token uuid.UUID) ([]string, error) {
	query := `
		UPDATE showing_seats
		SET state = 'available', hold_token = NULL, hold_expires_at = NULL,
		    version = version + 1, updated_at = NOW()
		WHERE hold_token = $1 AND state = 'held'
		RETURNING seat_label
	`

	rows, err := r.db.Query(ctx, query, token)
	if err != nil {
		r.log.Error("Failed to release hold",
			zap.Error(err),
			zap.String("hold_token", token.String()),
		)
		return nil, fmt.Errorf("release hold %s: %w", token.String(), err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scan released seat label: %w", err)
		}
		labels = append(labels, label)
	}

	return labels, rows.Err()
}

func (r *seatRepository) ReleaseBooked(ctx context.Context, showingID uuid.UUID, labels []string) error {
	if len(labels) == 0 {
		return nil
	}

	query := `
		UPDATE showing_seats
		SET state = 'available', version = version + 1, updated_at = NOW()
		WHERE showing_id = $1 AND seat_label = ANY($2) AND state = 'booked'
	`

	result, err := r.db.Exec(ctx, query, showingID, labels)
	if err != nil {
		r.log.Error("Failed to release booked seats",
			zap.Error(err),
			zap.String("showing_id", showingID.String()),
			zap.Int("seat_count", len(labels)),
		)
		return fmt.Errorf("release booked seats: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("no booked seats released for showing %s", showingID.String())
	}

	return nil
}

func (r *seatRepository) ReleaseExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	// Self-join so RETURNING sees the pre-update token.
	query := `
		UPDATE showing_seats s
		SET state = 'available', hold_token = NULL, hold_expires_at = NULL,
		    version = s.version + 1, updated_at = NOW()
		FROM showing_seats old
		WHERE s.id = old.id AND s.state = 'held' AND s.hold_expires_at <= $1
		RETURNING old.hold_token
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to release expired holds", zap.Error(err))
		return nil, fmt.Errorf("release expired holds: %w", err)
	}
	defer rows.Close()

	seen := make(map[uuid.UUID]struct{})
	var tokens []uuid.UUID
	for rows.Next() {
		var token *uuid.UUID
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("scan expired hold token: %w", err)
		}
		if token == nil {
			continue
		}
		if _, ok := seen[*token]; !ok {
			seen[*token] = struct{}{}
			tokens = append(tokens, *token)
		}
	}

	return tokens, rows.Err()
}
