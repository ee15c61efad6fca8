package domain

import (
	"context"
	"time"
)

// Reservation event types, also used as message routing keys.
const (
	EventReservationCreated   = "reservation.created"
	EventReservationCancelled = "reservation.cancelled"
	EventCatalogRegenerated   = "catalog.regenerated"
)

// ReservationEvent notifies listeners that seats of a slot changed.
type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	BlockID       string    `json:"block_id,omitempty"`
	Date          string    `json:"date,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher delivers reservation events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, evt ReservationEvent) error
}
