package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gymbooking/internal/delivery/http/helpers"
	"gymbooking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_SignUp(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{"created", `{"email":"Ana@Gym.test","password":"longenough","name":" Ana "}`, nil, http.StatusCreated, ""},
		{"short password", `{"email":"ana@gym.test","password":"short","name":"Ana"}`, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"bad email", `{"email":"ana","password":"longenough","name":"Ana"}`, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"blank name", `{"email":"ana@gym.test","password":"longenough","name":"   "}`, nil, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"taken", `{"email":"ana@gym.test","password":"longenough","name":"Ana"}`, domain.ErrDuplicateEmail, http.StatusConflict, helpers.ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAuthService{user: &domain.User{ID: "u1", Email: "ana@gym.test", Name: "Ana"}, signUpErr: tt.svcErr}
			ctrl := NewAuthController(testLogger(), svc)

			rr := httptest.NewRecorder()
			ctrl.SignUp(rr, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rr.Code)
			apiErr := decodeEnvelope(t, rr, nil)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			assert.Equal(t, "ana@gym.test", svc.lastEmail)
			assert.Equal(t, "Ana", svc.lastName)
			assert.NotContains(t, rr.Body.String(), "password")
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := NewAuthController(testLogger(), &fakeAuthService{token: "jwt"})
		rr := httptest.NewRecorder()
		ctrl.Login(rr, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ana@gym.test","password":"longenough"}`)))

		require.Equal(t, http.StatusOK, rr.Code)
		var got LoginResponse
		require.Nil(t, decodeEnvelope(t, rr, &got))
		assert.Equal(t, LoginResponse{Token: "jwt", TokenType: "Bearer"}, got)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		ctrl := NewAuthController(testLogger(), &fakeAuthService{loginErr: domain.ErrInvalidCredentials})
		rr := httptest.NewRecorder()
		ctrl.Login(rr, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ana@gym.test","password":"wrong-one"}`)))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		apiErr := decodeEnvelope(t, rr, nil)
		require.NotNil(t, apiErr)
		assert.Equal(t, helpers.ErrCodeInvalidCredentials, apiErr.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		ctrl := NewAuthController(testLogger(), &fakeAuthService{})
		rr := httptest.NewRecorder()
		ctrl.Login(rr, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ana@gym.test"}`)))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
