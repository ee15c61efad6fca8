package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"gymbooking/internal/domain"
)

type timeBlockRepository struct {
	DB *sql.DB
}

func NewTimeBlockRepository(db *sql.DB) domain.TimeBlockRepository {
	return &timeBlockRepository{DB: db}
}

func (r *timeBlockRepository) ReplaceAll(ctx context.Context, blocks []*domain.TimeBlock) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `LOCK TABLE time_blocks IN ACCESS EXCLUSIVE MODE`); err != nil {
			return mapError(err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM time_blocks`); err != nil {
			return mapError(err)
		}
		query := `
			INSERT INTO time_blocks (name, start_time, end_time, capacity)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		for _, b := range blocks {
			err := tx.QueryRowContext(ctx, query, b.Name, b.StartTime, b.EndTime, b.Capacity).Scan(&b.ID)
			if err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("%w: duplicate block name %q", domain.ErrInvalidInput, b.Name)
				}
				return mapError(err)
			}
		}
		return nil
	})
}

func (r *timeBlockRepository) ListOrdered(ctx context.Context) ([]*domain.TimeBlock, error) {
	query := `
		SELECT id, name, start_time, end_time, capacity
		FROM time_blocks
		ORDER BY start_time ASC, name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	blocks := []*domain.TimeBlock{}
	for rows.Next() {
		b := &domain.TimeBlock{}
		if err := rows.Scan(&b.ID, &b.Name, &b.StartTime, &b.EndTime, &b.Capacity); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *timeBlockRepository) GetByID(ctx context.Context, id string) (*domain.TimeBlock, error) {
	query := `
		SELECT id, name, start_time, end_time, capacity
		FROM time_blocks
		WHERE id = $1
	`
	b := &domain.TimeBlock{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &b.StartTime, &b.EndTime, &b.Capacity)
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}
