package domain

import (
	"context"
	"time"
)

// Suggestion is free-text feedback, optionally attributed to a user.
// swagger:model Suggestion
type Suggestion struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// SuggestionRepository defines append-only storage for suggestions.
type SuggestionRepository interface {
	Create(ctx context.Context, s *Suggestion) error
	List(ctx context.Context, params PaginationParams) ([]*Suggestion, int, error)
}

// SuggestionService defines the feedback operations.
type SuggestionService interface {
	Submit(ctx context.Context, userID, text string, anonymous bool) (*Suggestion, error)
	List(ctx context.Context, params PaginationParams) ([]*Suggestion, int, error)
}
