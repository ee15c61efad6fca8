package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gymbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	profile  *domain.Profile
	err      error
	lastID   string
	lastName string
}

func (f *fakeUserService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	f.lastID = id
	return f.profile, f.err
}

func (f *fakeUserService) UpdateName(ctx context.Context, id, name string) (*domain.Profile, error) {
	f.lastID, f.lastName = id, name
	return f.profile, f.err
}

func TestUserController_GetMe(t *testing.T) {
	svc := &fakeUserService{profile: &domain.Profile{
		User:  &domain.User{ID: "u1", Email: "ana@gym.test", Name: "Ana", PasswordHash: "secret-hash"},
		Roles: []string{domain.RoleMember},
	}}
	ctrl := NewUserController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req = req.WithContext(asUser(req.Context(), "u1"))
	rr := httptest.NewRecorder()

	ctrl.GetMe(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u1", svc.lastID)
	assert.NotContains(t, rr.Body.String(), "secret-hash")
	var got domain.Profile
	require.Nil(t, decodeEnvelope(t, rr, &got))
	assert.Equal(t, []string{domain.RoleMember}, got.Roles)
}

func TestUserController_GetMe_Unauthorized(t *testing.T) {
	ctrl := NewUserController(testLogger(), &fakeUserService{})
	rr := httptest.NewRecorder()

	ctrl.GetMe(rr, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUserController_UpdateMe(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
	}{
		{"renamed", `{"name":"Ana María"}`, nil, http.StatusOK},
		{"missing name", `{}`, nil, http.StatusBadRequest},
		{"email not editable", `{"name":"Ana","email":"x@y.z"}`, nil, http.StatusBadRequest},
		{"blank after trim", `{"name":"  "}`, domain.ErrInvalidInput, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeUserService{profile: &domain.Profile{User: &domain.User{ID: "u1"}}, err: tt.svcErr}
			ctrl := NewUserController(testLogger(), svc)

			req := httptest.NewRequest(http.MethodPatch, "/users/me", strings.NewReader(tt.body))
			req = req.WithContext(asUser(req.Context(), "u1"))
			rr := httptest.NewRecorder()

			ctrl.UpdateMe(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}
