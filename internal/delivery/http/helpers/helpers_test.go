package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gymbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookRequest struct {
	BlockID string `json:"block_id" validate:"required,uuid"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Note    string `json:"note"`
}

func (b *bookRequest) Validate() []string {
	if b.Note == "reject" {
		return []string{"note rejected"}
	}
	return nil
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) *APIError {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantOK  bool
		wantMsg string
	}{
		{"valid", `{"block_id":"6f1c2f4e-2a8b-4a59-9a39-0e4c1f3d2b11","date":"2024-06-10"}`, true, ""},
		{"malformed json", `{"block_id":`, false, "unexpected EOF"},
		{"unknown field", `{"block_id":"x","extra":1}`, false, "unknown field"},
		{"missing block", `{"date":"2024-06-10"}`, false, "block_id is required"},
		{"bad uuid", `{"block_id":"nope","date":"2024-06-10"}`, false, "block_id must be a UUID"},
		{"bad date", `{"block_id":"6f1c2f4e-2a8b-4a59-9a39-0e4c1f3d2b11","date":"10/06/2024"}`, false, "date must match 2006-01-02"},
		{"custom validator", `{"block_id":"6f1c2f4e-2a8b-4a59-9a39-0e4c1f3d2b11","date":"2024-06-10","note":"reject"}`, false, "note rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/reservations", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			var dest bookRequest

			ok := DecodeAndValidate(rr, req, &dest)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				return
			}
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			apiErr := decodeError(t, rr)
			assert.Equal(t, ErrCodeBadRequest, apiErr.Code)
			assert.Contains(t, apiErr.Message, tt.wantMsg)
		})
	}
}

func TestWriteDomainError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{fmt.Errorf("date: %w", domain.ErrInvalidInput), http.StatusBadRequest, ErrCodeBadRequest},
		{domain.ErrPastBlock, http.StatusUnprocessableEntity, ErrCodePastBlock},
		{domain.ErrDuplicateBooking, http.StatusConflict, ErrCodeDuplicateBooking},
		{domain.ErrBlockFull, http.StatusConflict, ErrCodeBlockFull},
		{domain.ErrDuplicateEmail, http.StatusConflict, ErrCodeConflict},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeInvalidCredentials},
		{domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{errors.New("connection reset"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			WriteDomainError(rr, req, logger, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			apiErr := decodeError(t, rr)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestWriteDomainError_HidesInternalMessage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rr := httptest.NewRecorder()

	WriteDomainError(rr, httptest.NewRequest(http.MethodGet, "/", nil), logger, errors.New("pq: password authentication failed"))

	assert.NotContains(t, rr.Body.String(), "pq:")
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"", 1, domain.DefaultPageSize},
		{"page=3&page_size=5", 3, 5},
		{"page=0&page_size=-2", 1, domain.DefaultPageSize},
		{"page=abc", 1, domain.DefaultPageSize},
		{"page_size=500", 1, domain.MaxPageSize},
		{"page=2&page_size=2.5", 2, domain.DefaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/suggestions?"+tt.query, nil)
			p := ParsePagination(req)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	assert.Equal(t, PaginationMeta{Page: 2, PageSize: 10, Total: 21, TotalPages: 3},
		NewPaginationMeta(domain.PaginationParams{Page: 2, PageSize: 10}, 21))
	assert.Equal(t, 0, NewPaginationMeta(domain.PaginationParams{Page: 1}, 5).TotalPages)
	assert.Equal(t, 0, NewPaginationMeta(domain.PaginationParams{Page: 1, PageSize: 20}, 0).TotalPages)
}
