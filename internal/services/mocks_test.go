package services

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"gymbooking/internal/domain"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockTimeBlockRepository struct {
	blocks     []*domain.TimeBlock
	replaced   []*domain.TimeBlock
	err        error
	listCalls  int
	replaceErr error
}

func (m *mockTimeBlockRepository) ReplaceAll(ctx context.Context, blocks []*domain.TimeBlock) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	for _, b := range blocks {
		b.ID = uuid.NewString()
	}
	m.replaced = blocks
	m.blocks = blocks
	return nil
}

func (m *mockTimeBlockRepository) ListOrdered(ctx context.Context) ([]*domain.TimeBlock, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	out := append([]*domain.TimeBlock(nil), m.blocks...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *mockTimeBlockRepository) GetByID(ctx context.Context, id string) (*domain.TimeBlock, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, b := range m.blocks {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockReservationRepository keeps reservations in memory. CreateWithinCapacity
// deliberately splits its count and insert so that callers have to serialize.
type mockReservationRepository struct {
	mu           sync.Mutex
	items        map[string]*domain.Reservation
	createErrs   []error
	createCalls  int
	err          error
	weekQueries  int
	upcomingFrom domain.Date
}

func newMockReservationRepository() *mockReservationRepository {
	return &mockReservationRepository{items: make(map[string]*domain.Reservation)}
}

func (m *mockReservationRepository) countLocked(blockID string, date domain.Date) int {
	n := 0
	for _, r := range m.items {
		if r.BlockID == blockID && r.Date == date {
			n++
		}
	}
	return n
}

func (m *mockReservationRepository) add(r *domain.Reservation) *domain.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	m.items[r.ID] = r
	return r
}

func (m *mockReservationRepository) CreateWithinCapacity(ctx context.Context, r *domain.Reservation, capacity int) error {
	m.mu.Lock()
	m.createCalls++
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		m.mu.Unlock()
		return err
	}
	count := m.countLocked(r.BlockID, r.Date)
	m.mu.Unlock()

	runtime.Gosched()
	if count >= capacity {
		return domain.ErrBlockFull
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.UserID == r.UserID && existing.BlockID == r.BlockID && existing.Date == r.Date {
			return domain.ErrDuplicateBooking
		}
	}
	r.ID = uuid.NewString()
	m.items[r.ID] = r
	return nil
}

func (m *mockReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockReservationRepository) DeleteByIDAndOwner(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.items[id]
	if !ok || r.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockReservationRepository) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockReservationRepository) CountByBlockAndDate(ctx context.Context, blockID string, date domain.Date) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.countLocked(blockID, date), nil
}

func (m *mockReservationRepository) FindByUserBlockDate(ctx context.Context, userID, blockID string, date domain.Date) (*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.items {
		if r.UserID == userID && r.BlockID == blockID && r.Date == date {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockReservationRepository) ListByUserAndDates(ctx context.Context, userID string, dates []domain.Date) ([]*domain.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weekQueries++
	var out []*domain.Reservation
	for _, r := range m.items {
		if r.UserID == userID && containsDate(dates, r.Date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReservationRepository) CountByDates(ctx context.Context, dates []domain.Date) (map[domain.SlotKey]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weekQueries++
	counts := make(map[domain.SlotKey]int)
	for _, r := range m.items {
		if containsDate(dates, r.Date) {
			counts[domain.SlotKey{BlockID: r.BlockID, Date: r.Date}]++
		}
	}
	return counts, nil
}

func (m *mockReservationRepository) ListUpcomingByUser(ctx context.Context, userID string, from domain.Date) ([]*domain.ReservationWithBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upcomingFrom = from
	var out []*domain.ReservationWithBlock
	for _, r := range m.items {
		if r.UserID == userID && !r.Date.Before(from) {
			out = append(out, &domain.ReservationWithBlock{Reservation: r})
		}
	}
	return out, nil
}

func (m *mockReservationRepository) ListStartingBetween(ctx context.Context, date domain.Date, from, to domain.TimeOfDay) ([]*domain.ReservationWithBlock, error) {
	return nil, nil
}

func (m *mockReservationRepository) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func containsDate(dates []domain.Date, d domain.Date) bool {
	for _, x := range dates {
		if x == d {
			return true
		}
	}
	return false
}

type mockUserRepository struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	byEmail  map[string]*domain.User
	roles    map[string][]string
	createFn func(u *domain.User) error
}

func newMockUserRepository(users ...*domain.User) *mockUserRepository {
	m := &mockUserRepository{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
		roles:   make(map[string][]string),
	}
	for _, u := range users {
		m.users[u.ID] = u
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createFn != nil {
		if err := m.createFn(u); err != nil {
			return err
		}
	}
	if _, ok := m.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	m.users[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepository) UpdateName(ctx context.Context, id, name string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Name = name
	u.UpdatedAt = updatedAt
	return nil
}

func (m *mockUserRepository) AssignRole(ctx context.Context, userID, roleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[userID] = append(m.roles[userID], roleID)
	return nil
}

type mockRoleRepository struct {
	users *mockUserRepository
}

func (m *mockRoleRepository) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	switch code {
	case domain.RoleMember, domain.RoleAdmin:
		return &domain.Role{ID: code, Code: code}, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockRoleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	m.users.mu.Lock()
	defer m.users.mu.Unlock()
	var roles []*domain.Role
	for _, id := range m.users.roles[userID] {
		roles = append(roles, &domain.Role{ID: id, Code: id})
	}
	return roles, nil
}

type mockEmailService struct {
	mu            sync.Mutex
	confirmations []*domain.BookingEmailData
	cancellations []*domain.BookingEmailData
	reminders     []*domain.BookingEmailData
	err           error
}

func (m *mockEmailService) SendBookingConfirmation(ctx context.Context, data *domain.BookingEmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations = append(m.confirmations, data)
	return m.err
}

func (m *mockEmailService) SendBookingCancellation(ctx context.Context, data *domain.BookingEmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancellations = append(m.cancellations, data)
	return m.err
}

func (m *mockEmailService) SendBookingReminder(ctx context.Context, data *domain.BookingEmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminders = append(m.reminders, data)
	return m.err
}

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.ReservationEvent
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, evt domain.ReservationEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return m.err
}

func (m *mockPublisher) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}
