package postgres

import (
	"context"
	"database/sql"

	"gymbooking/internal/domain"
)

type suggestionRepository struct {
	DB *sql.DB
}

func NewSuggestionRepository(db *sql.DB) domain.SuggestionRepository {
	return &suggestionRepository{DB: db}
}

func (r *suggestionRepository) Create(ctx context.Context, s *domain.Suggestion) error {
	query := `
		INSERT INTO suggestions (user_id, text, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var userID sql.NullString
	if s.UserID != nil {
		userID = sql.NullString{String: *s.UserID, Valid: true}
	}
	return mapError(r.DB.QueryRowContext(ctx, query, userID, s.Text, s.CreatedAt).Scan(&s.ID))
}

func (r *suggestionRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Suggestion, int, error) {
	params = params.Normalize()

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM suggestions`).Scan(&total); err != nil {
		return nil, 0, mapError(err)
	}

	query := `
		SELECT id, user_id, text, created_at
		FROM suggestions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, mapError(err)
	}
	defer rows.Close()

	list := []*domain.Suggestion{}
	for rows.Next() {
		s := &domain.Suggestion{}
		var userID sql.NullString
		if err := rows.Scan(&s.ID, &userID, &s.Text, &s.CreatedAt); err != nil {
			return nil, 0, err
		}
		if userID.Valid {
			s.UserID = &userID.String
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
