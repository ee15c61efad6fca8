package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gymbooking/internal/domain"
)

const maxSuggestionLen = 2000

type suggestionService struct {
	repo           domain.SuggestionRepository
	clock          domain.Clock
	contextTimeout time.Duration
}

// NewSuggestionService creates a SuggestionService.
func NewSuggestionService(repo domain.SuggestionRepository, clock domain.Clock, timeout time.Duration) domain.SuggestionService {
	return &suggestionService{repo: repo, clock: clock, contextTimeout: timeout}
}

// Submit stores text; anonymous drops the author.
func (s *suggestionService) Submit(ctx context.Context, userID, text string, anonymous bool) (*domain.Suggestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: suggestion text is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(text) > maxSuggestionLen {
		return nil, fmt.Errorf("%w: suggestion is longer than %d characters", domain.ErrInvalidInput, maxSuggestionLen)
	}

	sug := &domain.Suggestion{Text: text, CreatedAt: s.clock.Now()}
	if !anonymous && userID != "" {
		sug.UserID = &userID
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	if err := s.repo.Create(ctx, sug); err != nil {
		return nil, fmt.Errorf("create suggestion: %w", err)
	}
	return sug, nil
}

func (s *suggestionService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Suggestion, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	list, total, err := s.repo.List(ctx, params.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list suggestions: %w", err)
	}
	return list, total, nil
}
