package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymbooking/internal/domain"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type window struct {
	date     string
	from, to string
}

type fakeReservations struct {
	domain.ReservationRepository
	windows []window
	byDate  map[string][]*domain.ReservationWithBlock
	err     error
}

func (f *fakeReservations) ListStartingBetween(ctx context.Context, date domain.Date, from, to domain.TimeOfDay) ([]*domain.ReservationWithBlock, error) {
	f.windows = append(f.windows, window{date.String(), from.String(), to.String()})
	return f.byDate[date.String()], f.err
}

type fakeUsers struct {
	domain.UserRepository
}

func (fakeUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "ghost" {
		return nil, domain.ErrNotFound
	}
	return &domain.User{ID: id, Email: id + "@example.com"}, nil
}

type fakeEmail struct {
	domain.EmailService
	sent []*domain.BookingEmailData
}

func (f *fakeEmail) SendBookingReminder(ctx context.Context, data *domain.BookingEmailData) error {
	f.sent = append(f.sent, data)
	return nil
}

func reservationAt(userID, date string, start domain.TimeOfDay) *domain.ReservationWithBlock {
	d, _ := domain.ParseDate(date)
	return &domain.ReservationWithBlock{
		Reservation: &domain.Reservation{ID: "res-" + userID, UserID: userID, Date: d},
		Block:       &domain.TimeBlock{Name: "Block 3-4", StartTime: start, EndTime: start.Add(70 * time.Minute)},
	}
}

func newJob(now time.Time, res *fakeReservations, email *fakeEmail) *ReminderJob {
	return &ReminderJob{
		Reservations: res,
		Users:        fakeUsers{},
		Email:        email,
		Clock:        fixedClock{t: now},
		Location:     time.UTC,
		Lead:         time.Hour,
		Window:       5 * time.Minute,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestReminderJob_Run(t *testing.T) {
	res := &fakeReservations{byDate: map[string][]*domain.ReservationWithBlock{
		"2024-06-12": {
			reservationAt("ana", "2024-06-12", domain.TimeOfDay{Hour: 9, Minute: 40}),
			reservationAt("ghost", "2024-06-12", domain.TimeOfDay{Hour: 9, Minute: 40}),
		},
	}}
	email := &fakeEmail{}
	job := newJob(time.Date(2024, 6, 12, 8, 40, 0, 0, time.UTC), res, email)

	sent, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []window{{"2024-06-12", "09:40", "09:45"}}, res.windows)
	require.Len(t, email.sent, 1)
	assert.Equal(t, "ana@example.com", email.sent[0].Email)
	assert.Equal(t, "09:40", email.sent[0].StartTime)
	assert.Equal(t, "10:50", email.sent[0].EndTime)
}

func TestReminderJob_WindowCrossingMidnight(t *testing.T) {
	res := &fakeReservations{}
	job := newJob(time.Date(2024, 6, 12, 22, 57, 0, 0, time.UTC), res, &fakeEmail{})

	_, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []window{
		{"2024-06-12", "23:57", "24:00"},
		{"2024-06-13", "00:00", "00:02"},
	}, res.windows)
}

func TestReminderJob_StorageError(t *testing.T) {
	boom := errors.New("db down")
	job := newJob(time.Date(2024, 6, 12, 8, 40, 0, 0, time.UTC), &fakeReservations{err: boom}, &fakeEmail{})
	_, err := job.Run(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestReminderJob_Schedule(t *testing.T) {
	job := newJob(time.Now(), &fakeReservations{}, &fakeEmail{})
	c := NewScheduler(time.UTC)

	_, err := job.Schedule(c, "*/5 * * * *")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = job.Schedule(c, "not a spec")
	require.Error(t, err)
}
