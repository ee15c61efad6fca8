package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"gymbooking/internal/delivery/http/helpers"
	"gymbooking/internal/delivery/http/middleware"
	"gymbooking/internal/domain"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func asUser(ctx context.Context, userID string, roles ...string) context.Context {
	return middleware.SetIdentity(ctx, &domain.Identity{UserID: userID, Roles: roles})
}

// decodeEnvelope unmarshals the response envelope, decoding data into dest when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &raw))
	if dest != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, dest))
	}
	return raw.Error
}

type fakeBookingService struct {
	bookRes   *domain.Reservation
	bookErr   error
	cancelErr error
	grid      *domain.WeekGrid
	gridErr   error
	mine      []*domain.ReservationWithBlock
	mineErr   error

	lastUser  string
	lastBlock string
	lastDate  string
	lastID    string
	lastRef   string
}

func (f *fakeBookingService) Book(ctx context.Context, userID, blockID, date string) (*domain.Reservation, error) {
	f.lastUser, f.lastBlock, f.lastDate = userID, blockID, date
	return f.bookRes, f.bookErr
}

func (f *fakeBookingService) Cancel(ctx context.Context, userID, reservationID string) error {
	f.lastUser, f.lastID = userID, reservationID
	return f.cancelErr
}

func (f *fakeBookingService) AdminCancel(ctx context.Context, reservationID string) error {
	f.lastID = reservationID
	return f.cancelErr
}

func (f *fakeBookingService) WeekGrid(ctx context.Context, userID, reference string) (*domain.WeekGrid, error) {
	f.lastUser, f.lastRef = userID, reference
	return f.grid, f.gridErr
}

func (f *fakeBookingService) ListMine(ctx context.Context, userID string) ([]*domain.ReservationWithBlock, error) {
	f.lastUser = userID
	return f.mine, f.mineErr
}

type fakeCatalogService struct {
	blocks         []*domain.TimeBlock
	err            error
	regenerateCall int
}

func (f *fakeCatalogService) Regenerate(ctx context.Context) ([]*domain.TimeBlock, error) {
	f.regenerateCall++
	return f.blocks, f.err
}

func (f *fakeCatalogService) List(ctx context.Context) ([]*domain.TimeBlock, error) {
	return f.blocks, f.err
}

type fakeAuthService struct {
	user      *domain.User
	signUpErr error
	token     string
	loginErr  error

	lastEmail string
	lastName  string
}

func (f *fakeAuthService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	f.lastEmail, f.lastName = email, name
	return f.user, f.signUpErr
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	f.lastEmail = email
	return f.token, f.loginErr
}

type fakeSuggestionService struct {
	stored     *domain.Suggestion
	items      []*domain.Suggestion
	total      int
	err        error
	lastUser   string
	lastAnon   bool
	lastParams domain.PaginationParams
}

func (f *fakeSuggestionService) Submit(ctx context.Context, userID, text string, anonymous bool) (*domain.Suggestion, error) {
	f.lastUser, f.lastAnon = userID, anonymous
	return f.stored, f.err
}

func (f *fakeSuggestionService) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Suggestion, int, error) {
	f.lastParams = params
	return f.items, f.total, f.err
}

type fakeReportService struct {
	report *domain.SurveyReport
	err    error
}

func (f *fakeReportService) SurveyReport(ctx context.Context) (*domain.SurveyReport, error) {
	return f.report, f.err
}
