package domain

import (
	"context"
	"time"
)

// DefaultBlockCapacity is the seat count of a block when none is configured.
const DefaultBlockCapacity = 10

// TimeBlock is a named slot of the weekly schedule (e.g. "Block 1-2").
// The same blocks repeat every weekday.
// swagger:model TimeBlock
type TimeBlock struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime TimeOfDay `json:"start_time" swaggertype:"string" example:"08:15"`
	EndTime   TimeOfDay `json:"end_time" swaggertype:"string" example:"09:25"`
	Capacity  int       `json:"capacity"`
}

// NewTimeBlock returns a TimeBlock with the given fields. ID is set by the repository on create.
func NewTimeBlock(name string, start, end TimeOfDay, capacity int) *TimeBlock {
	return &TimeBlock{
		Name:      name,
		StartTime: start,
		EndTime:   end,
		Capacity:  capacity,
	}
}

// StartOn returns the instant the block starts on date d in loc.
func (b *TimeBlock) StartOn(d Date, loc *time.Location) time.Time {
	return d.At(b.StartTime, loc)
}

// TimeBlockRepository defines storage for the schedule catalog.
type TimeBlockRepository interface {
	// ReplaceAll deletes every block (and, by cascade, their reservations) and
	// inserts blocks in one transaction. IDs are set on the given blocks.
	ReplaceAll(ctx context.Context, blocks []*TimeBlock) error
	// ListOrdered returns all blocks ordered by start time, then name.
	ListOrdered(ctx context.Context) ([]*TimeBlock, error)
	GetByID(ctx context.Context, id string) (*TimeBlock, error)
}

// CatalogService manages the schedule catalog.
type CatalogService interface {
	// Regenerate replaces the whole catalog with the fixed daily layout.
	Regenerate(ctx context.Context) ([]*TimeBlock, error)
	List(ctx context.Context) ([]*TimeBlock, error)
}
