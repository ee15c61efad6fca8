package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymbooking/internal/domain"
)

func newTestUserService(users *mockUserRepository) domain.UserService {
	return NewUserService(users, &mockRoleRepository{users: users}, fixedClock{t: testNow}, time.Second)
}

func TestUserService_GetProfile(t *testing.T) {
	users := newMockUserRepository(&domain.User{ID: "u1", Email: "ana@gym.test", Name: "Ana"})
	users.roles["u1"] = []string{domain.RoleMember, domain.RoleAdmin}
	svc := newTestUserService(users)

	p, err := svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana@gym.test", p.User.Email)
	assert.Equal(t, []string{domain.RoleMember, domain.RoleAdmin}, p.Roles)

	_, err = svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserService_UpdateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		want    string
	}{
		{"trimmed", "  Ana María ", nil, "Ana María"},
		{"blank", "   ", domain.ErrInvalidInput, ""},
		{"too long", strings.Repeat("ñ", maxNameLen+1), domain.ErrInvalidInput, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMockUserRepository(&domain.User{ID: "u1", Email: "ana@gym.test", Name: "Ana"})
			svc := newTestUserService(users)

			p, err := svc.UpdateName(context.Background(), "u1", tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "Ana", users.users["u1"].Name)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.User.Name)
			assert.Equal(t, testNow, p.User.UpdatedAt)
			assert.Empty(t, p.Roles)
		})
	}
}
