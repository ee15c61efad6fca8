package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymbooking/internal/domain"
)

// isPast reports whether block has already started on date, as seen at now in loc.
// Book and WeekGrid both go through it so the grid never offers what booking rejects.
func isPast(block *domain.TimeBlock, date domain.Date, now time.Time, loc *time.Location) bool {
	return block.StartOn(date, loc).Before(now)
}

// seatsLeft is the number of free seats for a slot with count reservations.
func seatsLeft(capacity, count int) int {
	if count >= capacity {
		return 0
	}
	return capacity - count
}

type bookingService struct {
	blockRepo       domain.TimeBlockRepository
	reservationRepo domain.ReservationRepository
	userRepo        domain.UserRepository
	emailService    domain.EmailService
	publisher       domain.EventPublisher
	clock           domain.Clock
	location        *time.Location
	logger          *slog.Logger
	contextTimeout  time.Duration
	slots           *keyedMutex
}

// BookingDeps groups the collaborators of the booking service.
type BookingDeps struct {
	Blocks       domain.TimeBlockRepository
	Reservations domain.ReservationRepository
	Users        domain.UserRepository
	Email        domain.EmailService
	Publisher    domain.EventPublisher
	Clock        domain.Clock
	Location     *time.Location
	Logger       *slog.Logger
	Timeout      time.Duration
}

// NewBookingService creates the BookingService over the reservation ledger.
func NewBookingService(deps BookingDeps) domain.BookingService {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &bookingService{
		blockRepo:       deps.Blocks,
		reservationRepo: deps.Reservations,
		userRepo:        deps.Users,
		emailService:    deps.Email,
		publisher:       deps.Publisher,
		clock:           deps.Clock,
		location:        loc,
		logger:          deps.Logger,
		contextTimeout:  deps.Timeout,
		slots:           newKeyedMutex(),
	}
}

func (s *bookingService) Book(ctx context.Context, userID, blockID, date string) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := uuid.Parse(blockID); err != nil {
		return nil, fmt.Errorf("%w: block id %q", domain.ErrInvalidInput, blockID)
	}
	block, err := s.blockRepo.GetByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get block: %w", err)
	}

	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if isPast(block, day, now, s.location) {
		return nil, domain.ErrPastBlock
	}

	key := domain.SlotKey{BlockID: block.ID, Date: day}
	unlock := s.slots.Lock(key.String())
	defer unlock()

	if _, err := s.reservationRepo.FindByUserBlockDate(ctx, userID, block.ID, day); err == nil {
		return nil, domain.ErrDuplicateBooking
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find reservation: %w", err)
	}

	count, err := s.reservationRepo.CountByBlockAndDate(ctx, block.ID, day)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}
	if seatsLeft(block.Capacity, count) == 0 {
		return nil, domain.ErrBlockFull
	}

	res := domain.NewReservation(userID, block.ID, day, now)
	if err := s.create(ctx, res, block.Capacity); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "reservation created",
		"reservation_id", res.ID, "user_id", userID, "block_id", block.ID, "date", day.String())
	s.announce(ctx, domain.EventReservationCreated, res, now)
	s.sendEmail(ctx, userID, block, day, s.emailService.SendBookingConfirmation)
	return res, nil
}

// create inserts res, retrying once when storage reports a lost race.
func (s *bookingService) create(ctx context.Context, res *domain.Reservation, capacity int) error {
	err := s.reservationRepo.CreateWithinCapacity(ctx, res, capacity)
	if errors.Is(err, domain.ErrStorageConflict) {
		s.logger.WarnContext(ctx, "reservation insert conflict, retrying", "block_id", res.BlockID, "date", res.Date.String())
		err = s.reservationRepo.CreateWithinCapacity(ctx, res, capacity)
		if errors.Is(err, domain.ErrStorageConflict) {
			return domain.ErrBlockFull
		}
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrBlockFull), errors.Is(err, domain.ErrDuplicateBooking):
		return err
	default:
		return fmt.Errorf("create reservation: %w", err)
	}
}

func (s *bookingService) Cancel(ctx context.Context, userID, reservationID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := uuid.Parse(reservationID); err != nil {
		return fmt.Errorf("%w: reservation id %q", domain.ErrInvalidInput, reservationID)
	}
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get reservation: %w", err)
	}
	if res.UserID != userID {
		return domain.ErrNotFound
	}
	if err := s.reservationRepo.DeleteByIDAndOwner(ctx, reservationID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete reservation: %w", err)
	}

	s.afterCancel(ctx, res)
	return nil
}

func (s *bookingService) AdminCancel(ctx context.Context, reservationID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := uuid.Parse(reservationID); err != nil {
		return fmt.Errorf("%w: reservation id %q", domain.ErrInvalidInput, reservationID)
	}
	res, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get reservation: %w", err)
	}
	if err := s.reservationRepo.DeleteByID(ctx, reservationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete reservation: %w", err)
	}

	s.afterCancel(ctx, res)
	return nil
}

func (s *bookingService) afterCancel(ctx context.Context, res *domain.Reservation) {
	s.logger.InfoContext(ctx, "reservation cancelled",
		"reservation_id", res.ID, "user_id", res.UserID, "block_id", res.BlockID, "date", res.Date.String())
	s.announce(ctx, domain.EventReservationCancelled, res, s.clock.Now())

	block, err := s.blockRepo.GetByID(ctx, res.BlockID)
	if err != nil {
		s.logger.WarnContext(ctx, "cancellation email skipped", "reservation_id", res.ID, "err", err)
		return
	}
	s.sendEmail(ctx, res.UserID, block, res.Date, s.emailService.SendBookingCancellation)
}

func (s *bookingService) WeekGrid(ctx context.Context, userID, reference string) (*domain.WeekGrid, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.clock.Now()
	ref := domain.DateOf(now.In(s.location))
	if reference != "" {
		parsed, err := domain.ParseDate(reference)
		if err != nil {
			return nil, err
		}
		ref = parsed
	}

	monday := ref.MondayOf()
	days := make([]domain.Date, domain.WeekDays)
	for i := range days {
		days[i] = monday.AddDays(i)
	}

	blocks, err := s.blockRepo.ListOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	mine, err := s.reservationRepo.ListByUserAndDates(ctx, userID, days)
	if err != nil {
		return nil, fmt.Errorf("list user reservations: %w", err)
	}
	counts, err := s.reservationRepo.CountByDates(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	booked := make(map[domain.SlotKey]string, len(mine))
	for _, r := range mine {
		booked[domain.SlotKey{BlockID: r.BlockID, Date: r.Date}] = r.ID
	}

	grid := &domain.WeekGrid{Days: days, Rows: make([]domain.GridRow, 0, len(blocks))}
	for _, b := range blocks {
		row := domain.GridRow{Block: b, Cells: make([]domain.GridCell, 0, len(days))}
		for _, d := range days {
			key := domain.SlotKey{BlockID: b.ID, Date: d}
			cell := domain.GridCell{
				Date:           d,
				AvailableSeats: seatsLeft(b.Capacity, counts[key]),
				IsPast:         isPast(b, d, now, s.location),
			}
			if id, ok := booked[key]; ok {
				cell.BookedByUser = true
				cell.ReservationID = &id
			}
			row.Cells = append(row.Cells, cell)
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid, nil
}

func (s *bookingService) ListMine(ctx context.Context, userID string) ([]*domain.ReservationWithBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	today := domain.DateOf(s.clock.Now().In(s.location))
	list, err := s.reservationRepo.ListUpcomingByUser(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("list upcoming reservations: %w", err)
	}
	return list, nil
}

func (s *bookingService) announce(ctx context.Context, eventType string, res *domain.Reservation, at time.Time) {
	evt := domain.ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID,
		UserID:        res.UserID,
		BlockID:       res.BlockID,
		Date:          res.Date.String(),
		OccurredAt:    at,
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "publish event failed", "type", eventType, "reservation_id", res.ID, "err", err)
	}
}

func (s *bookingService) sendEmail(
	ctx context.Context,
	userID string,
	block *domain.TimeBlock,
	day domain.Date,
	send func(context.Context, *domain.BookingEmailData) error,
) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "booking email skipped", "user_id", userID, "err", err)
		return
	}
	if err := send(ctx, bookingEmailData(user, block, day)); err != nil {
		s.logger.WarnContext(ctx, "booking email failed", "user_id", userID, "err", err)
	}
}

func bookingEmailData(user *domain.User, block *domain.TimeBlock, day domain.Date) *domain.BookingEmailData {
	return &domain.BookingEmailData{
		Email:     user.Email,
		Name:      user.Name,
		BlockName: block.Name,
		Date:      day.String(),
		StartTime: block.StartTime.String(),
		EndTime:   block.EndTime.String(),
	}
}
