package domain

import (
	"context"
	"time"
)

// Reservation binds a user to a time block on a calendar date.
// swagger:model Reservation
type Reservation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BlockID   string    `json:"block_id"`
	Date      Date      `json:"date" swaggertype:"string" example:"2024-06-10"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReservation creates a new Reservation. ID is set by the repository on create.
func NewReservation(userID, blockID string, date Date, createdAt time.Time) *Reservation {
	return &Reservation{
		UserID:    userID,
		BlockID:   blockID,
		Date:      date,
		CreatedAt: createdAt,
	}
}

// SlotKey identifies the seats of one block on one date.
type SlotKey struct {
	BlockID string
	Date    Date
}

func (k SlotKey) String() string { return k.BlockID + "@" + k.Date.String() }

// ReservationWithBlock bundles a reservation with its block.
type ReservationWithBlock struct {
	Reservation *Reservation `json:"reservation"`
	Block       *TimeBlock   `json:"block"`
}

// ReservationRepository defines storage for the reservation ledger.
type ReservationRepository interface {
	// CreateWithinCapacity inserts r only if fewer than capacity reservations
	// exist for (r.BlockID, r.Date). Count and insert run serialized per slot.
	// Returns ErrBlockFull, ErrDuplicateBooking or ErrStorageConflict.
	CreateWithinCapacity(ctx context.Context, r *Reservation, capacity int) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	// DeleteByIDAndOwner returns ErrNotFound when no reservation with that id
	// belongs to userID.
	DeleteByIDAndOwner(ctx context.Context, id, userID string) error
	DeleteByID(ctx context.Context, id string) error
	CountByBlockAndDate(ctx context.Context, blockID string, date Date) (int, error)
	FindByUserBlockDate(ctx context.Context, userID, blockID string, date Date) (*Reservation, error)
	ListByUserAndDates(ctx context.Context, userID string, dates []Date) ([]*Reservation, error)
	// CountByDates returns reservation counts grouped by (block, date).
	CountByDates(ctx context.Context, dates []Date) (map[SlotKey]int, error)
	// ListUpcomingByUser returns the user's reservations on or after from,
	// ordered by date and block start.
	ListUpcomingByUser(ctx context.Context, userID string, from Date) ([]*ReservationWithBlock, error)
	// ListStartingBetween returns reservations on date whose block starts in [from, to).
	ListStartingBetween(ctx context.Context, date Date, from, to TimeOfDay) ([]*ReservationWithBlock, error)
}

// GridCell is the availability of one block on one day of the week grid.
// swagger:model GridCell
type GridCell struct {
	Date           Date    `json:"date" swaggertype:"string" example:"2024-06-10"`
	AvailableSeats int     `json:"available_seats"`
	BookedByUser   bool    `json:"booked_by_user"`
	ReservationID  *string `json:"reservation_id"`
	IsPast         bool    `json:"is_past"`
}

// GridRow is one block of the week grid with one cell per weekday.
// swagger:model GridRow
type GridRow struct {
	Block *TimeBlock `json:"block"`
	Cells []GridCell `json:"cells"`
}

// WeekGrid is the Monday to Friday availability of every block.
// swagger:model WeekGrid
type WeekGrid struct {
	Days []Date    `json:"days" swaggertype:"array,string"`
	Rows []GridRow `json:"rows"`
}

// WeekDays is the number of bookable days in a week, Monday through Friday.
const WeekDays = 5

// BookingService defines member-facing booking operations.
type BookingService interface {
	Book(ctx context.Context, userID, blockID, date string) (*Reservation, error)
	Cancel(ctx context.Context, userID, reservationID string) error
	AdminCancel(ctx context.Context, reservationID string) error
	// WeekGrid computes the grid for the week containing reference (YYYY-MM-DD);
	// an empty reference means today in the configured zone.
	WeekGrid(ctx context.Context, userID, reference string) (*WeekGrid, error)
	ListMine(ctx context.Context, userID string) ([]*ReservationWithBlock, error)
}
