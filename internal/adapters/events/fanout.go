package events

import (
	"context"
	"errors"

	"gymbooking/internal/domain"
)

// Fanout delivers every event to all publishers and joins their errors.
type Fanout []domain.EventPublisher

func (f Fanout) Publish(ctx context.Context, evt domain.ReservationEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Noop discards events.
type Noop struct{}

func (Noop) Publish(context.Context, domain.ReservationEvent) error { return nil }
