package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"gymbooking/internal/domain"
)

type reservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(db *sql.DB) domain.ReservationRepository {
	return &reservationRepository{DB: db}
}

// CreateWithinCapacity serializes writers of one (block, date) with a
// transaction-scoped advisory lock, so the count below cannot go stale before
// the insert commits. The unique key on (user_id, block_id, date) rejects
// duplicates even if the caller skipped its own check.
func (r *reservationRepository) CreateWithinCapacity(ctx context.Context, res *domain.Reservation, capacity int) error {
	key := domain.SlotKey{BlockID: res.BlockID, Date: res.Date}
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key.String()); err != nil {
			return mapError(err)
		}

		var count int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM reservations WHERE block_id = $1 AND date = $2`,
			res.BlockID, res.Date).Scan(&count)
		if err != nil {
			return mapError(err)
		}
		if count >= capacity {
			return domain.ErrBlockFull
		}

		query := `
			INSERT INTO reservations (user_id, block_id, date, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		err = tx.QueryRowContext(ctx, query, res.UserID, res.BlockID, res.Date, res.CreatedAt).Scan(&res.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateBooking
			}
			return mapError(err)
		}
		return nil
	})
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	query := `
		SELECT id, user_id, block_id, date, created_at
		FROM reservations
		WHERE id = $1
	`
	res := &domain.Reservation{}
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&res.ID, &res.UserID, &res.BlockID, &res.Date, &res.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (r *reservationRepository) DeleteByIDAndOwner(ctx context.Context, id, userID string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

func (r *reservationRepository) DeleteByID(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return expectAffected(result)
}

func (r *reservationRepository) CountByBlockAndDate(ctx context.Context, blockID string, date domain.Date) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE block_id = $1 AND date = $2`,
		blockID, date).Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

func (r *reservationRepository) FindByUserBlockDate(ctx context.Context, userID, blockID string, date domain.Date) (*domain.Reservation, error) {
	query := `
		SELECT id, user_id, block_id, date, created_at
		FROM reservations
		WHERE user_id = $1 AND block_id = $2 AND date = $3
	`
	res := &domain.Reservation{}
	err := r.DB.QueryRowContext(ctx, query, userID, blockID, date).
		Scan(&res.ID, &res.UserID, &res.BlockID, &res.Date, &res.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

func (r *reservationRepository) ListByUserAndDates(ctx context.Context, userID string, dates []domain.Date) ([]*domain.Reservation, error) {
	query := `
		SELECT id, user_id, block_id, date, created_at
		FROM reservations
		WHERE user_id = $1 AND date = ANY($2::date[])
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, pq.Array(dateStrings(dates)))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	list := []*domain.Reservation{}
	for rows.Next() {
		res := &domain.Reservation{}
		if err := rows.Scan(&res.ID, &res.UserID, &res.BlockID, &res.Date, &res.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *reservationRepository) CountByDates(ctx context.Context, dates []domain.Date) (map[domain.SlotKey]int, error) {
	query := `
		SELECT block_id, date, COUNT(*)
		FROM reservations
		WHERE date = ANY($1::date[])
		GROUP BY block_id, date
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(dateStrings(dates)))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	counts := make(map[domain.SlotKey]int)
	for rows.Next() {
		var key domain.SlotKey
		var n int
		if err := rows.Scan(&key.BlockID, &key.Date, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *reservationRepository) ListUpcomingByUser(ctx context.Context, userID string, from domain.Date) ([]*domain.ReservationWithBlock, error) {
	query := `
		SELECT r.id, r.user_id, r.block_id, r.date, r.created_at,
		       b.id, b.name, b.start_time, b.end_time, b.capacity
		FROM reservations r
		INNER JOIN time_blocks b ON b.id = r.block_id
		WHERE r.user_id = $1 AND r.date >= $2
		ORDER BY r.date ASC, b.start_time ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID, from)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return scanWithBlock(rows)
}

func (r *reservationRepository) ListStartingBetween(ctx context.Context, date domain.Date, from, to domain.TimeOfDay) ([]*domain.ReservationWithBlock, error) {
	query := `
		SELECT r.id, r.user_id, r.block_id, r.date, r.created_at,
		       b.id, b.name, b.start_time, b.end_time, b.capacity
		FROM reservations r
		INNER JOIN time_blocks b ON b.id = r.block_id
		WHERE r.date = $1 AND b.start_time >= $2 AND b.start_time < $3
		ORDER BY b.start_time ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, date, from, to)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return scanWithBlock(rows)
}

func scanWithBlock(rows *sql.Rows) ([]*domain.ReservationWithBlock, error) {
	list := []*domain.ReservationWithBlock{}
	for rows.Next() {
		res := &domain.Reservation{}
		b := &domain.TimeBlock{}
		err := rows.Scan(&res.ID, &res.UserID, &res.BlockID, &res.Date, &res.CreatedAt,
			&b.ID, &b.Name, &b.StartTime, &b.EndTime, &b.Capacity)
		if err != nil {
			return nil, err
		}
		list = append(list, &domain.ReservationWithBlock{Reservation: res, Block: b})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func expectAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func dateStrings(dates []domain.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}
