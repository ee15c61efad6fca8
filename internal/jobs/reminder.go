// Package jobs holds periodic background work run by the server.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"gymbooking/internal/domain"
)

// ReminderJob emails members whose block starts within [now+Lead, now+Lead+Window).
// With Window equal to the schedule period each reservation is reminded once.
type ReminderJob struct {
	Reservations domain.ReservationRepository
	Users        domain.UserRepository
	Email        domain.EmailService
	Clock        domain.Clock
	Location     *time.Location
	Lead         time.Duration
	Window       time.Duration
	Timeout      time.Duration
	Logger       *slog.Logger
}

// Run sends one round of reminders and returns how many emails were sent.
func (j *ReminderJob) Run(ctx context.Context) (int, error) {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	from := j.Clock.Now().In(j.Location).Add(j.Lead)
	to := from.Add(j.Window)

	due, err := j.due(ctx, from, to)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range due {
		user, err := j.Users.GetByID(ctx, r.Reservation.UserID)
		if err != nil {
			j.Logger.WarnContext(ctx, "reminder skipped", "reservation_id", r.Reservation.ID, "err", err)
			continue
		}
		data := &domain.BookingEmailData{
			Email:     user.Email,
			Name:      user.Name,
			BlockName: r.Block.Name,
			Date:      r.Reservation.Date.String(),
			StartTime: r.Block.StartTime.String(),
			EndTime:   r.Block.EndTime.String(),
		}
		if err := j.Email.SendBookingReminder(ctx, data); err != nil {
			j.Logger.WarnContext(ctx, "reminder failed", "reservation_id", r.Reservation.ID, "err", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// due lists reservations starting in [from, to), splitting the query when the window crosses midnight.
func (j *ReminderJob) due(ctx context.Context, from, to time.Time) ([]*domain.ReservationWithBlock, error) {
	fromDay, toDay := domain.DateOf(from), domain.DateOf(to)
	fromTOD := domain.TimeOfDay{Hour: from.Hour(), Minute: from.Minute()}
	toTOD := domain.TimeOfDay{Hour: to.Hour(), Minute: to.Minute()}

	if fromDay == toDay {
		list, err := j.Reservations.ListStartingBetween(ctx, fromDay, fromTOD, toTOD)
		if err != nil {
			return nil, fmt.Errorf("list reservations starting soon: %w", err)
		}
		return list, nil
	}

	endOfDay := domain.TimeOfDay{Hour: 24}
	first, err := j.Reservations.ListStartingBetween(ctx, fromDay, fromTOD, endOfDay)
	if err != nil {
		return nil, fmt.Errorf("list reservations starting soon: %w", err)
	}
	second, err := j.Reservations.ListStartingBetween(ctx, toDay, domain.TimeOfDay{}, toTOD)
	if err != nil {
		return nil, fmt.Errorf("list reservations starting soon: %w", err)
	}
	return append(first, second...), nil
}

// Schedule registers the job on c under spec.
func (j *ReminderJob) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		sent, err := j.Run(context.Background())
		if err != nil {
			j.Logger.Error("reminder job failed", "err", err)
			return
		}
		if sent > 0 {
			j.Logger.Info("reminders sent", "count", sent)
		}
	})
}

// NewScheduler returns a cron scheduler that evaluates specs in loc.
func NewScheduler(loc *time.Location) *cron.Cron {
	return cron.New(cron.WithLocation(loc))
}
