package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gymbooking/internal/domain"
)

// BlockRule describes the daily layout of the schedule catalog.
type BlockRule struct {
	Count       int
	FirstStart  domain.TimeOfDay
	Length      time.Duration
	Recess      time.Duration
	LunchAfter  int // index of the block followed by lunch instead of a recess
	LunchLength time.Duration
	Capacity    int
}

// DefaultRule is ten 70-minute double blocks from 08:15 with lunch after the fourth.
func DefaultRule(capacity int) BlockRule {
	return BlockRule{
		Count:       10,
		FirstStart:  domain.TimeOfDay{Hour: 8, Minute: 15},
		Length:      70 * time.Minute,
		Recess:      15 * time.Minute,
		LunchAfter:  3,
		LunchLength: 60 * time.Minute,
		Capacity:    capacity,
	}
}

// BlockName returns the display name of the block at index i.
func BlockName(i int) string {
	return fmt.Sprintf("Block %d-%d", 2*i+1, 2*i+2)
}

// GenerateBlocks lays out rule.Count blocks back to back. It fails if the
// layout would run past midnight or the rule is malformed.
func GenerateBlocks(rule BlockRule) ([]*domain.TimeBlock, error) {
	if rule.Count < 1 || rule.Length <= 0 || rule.Capacity < 1 {
		return nil, fmt.Errorf("%w: block rule needs count, length and capacity", domain.ErrInvalidInput)
	}

	blocks := make([]*domain.TimeBlock, 0, rule.Count)
	startMin := rule.FirstStart.Minutes()
	for i := 0; i < rule.Count; i++ {
		endMin := startMin + int(rule.Length/time.Minute)
		if endMin >= 24*60 {
			return nil, fmt.Errorf("%w: block %d ends after midnight", domain.ErrInvalidInput, i+1)
		}
		start := domain.TimeOfDay{Hour: startMin / 60, Minute: startMin % 60}
		end := domain.TimeOfDay{Hour: endMin / 60, Minute: endMin % 60}
		blocks = append(blocks, domain.NewTimeBlock(BlockName(i), start, end, rule.Capacity))

		gap := rule.Recess
		if i == rule.LunchAfter {
			gap = rule.LunchLength
		}
		startMin = endMin + int(gap/time.Minute)
	}
	return blocks, nil
}

type catalogService struct {
	blockRepo      domain.TimeBlockRepository
	publisher      domain.EventPublisher
	rule           BlockRule
	clock          domain.Clock
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewCatalogService creates a CatalogService that regenerates blocks from rule.
func NewCatalogService(
	blockRepo domain.TimeBlockRepository,
	publisher domain.EventPublisher,
	rule BlockRule,
	clock domain.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.CatalogService {
	return &catalogService{
		blockRepo:      blockRepo,
		publisher:      publisher,
		rule:           rule,
		clock:          clock,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *catalogService) Regenerate(ctx context.Context) ([]*domain.TimeBlock, error) {
	blocks, err := GenerateBlocks(s.rule)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	if err := s.blockRepo.ReplaceAll(ctx, blocks); err != nil {
		return nil, fmt.Errorf("replace blocks: %w", err)
	}
	s.logger.InfoContext(ctx, "catalog regenerated", "blocks", len(blocks))

	evt := domain.ReservationEvent{Type: domain.EventCatalogRegenerated, OccurredAt: s.clock.Now()}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "publish event failed", "type", evt.Type, "err", err)
	}
	return blocks, nil
}

func (s *catalogService) List(ctx context.Context) ([]*domain.TimeBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	blocks, err := s.blockRepo.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return blocks, nil
}
