package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gymbooking/internal/domain"
)

const maxNameLen = 120

type userService struct {
	userRepo       domain.UserRepository
	roleRepo       domain.RoleRepository
	clock          domain.Clock
	contextTimeout time.Duration
}

// NewUserService creates a UserService over the user and role repositories.
func NewUserService(userRepo domain.UserRepository, roleRepo domain.RoleRepository, clock domain.Clock, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		clock:          clock,
		contextTimeout: timeout,
	}
}

func (s *userService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.profile(ctx, user)
}

func (s *userService) UpdateName(ctx context.Context, id, name string) (*domain.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, fmt.Errorf("%w: name must be at most %d characters", domain.ErrInvalidInput, maxNameLen)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.userRepo.UpdateName(ctx, id, name, s.clock.Now()); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return s.profile(ctx, user)
}

func (s *userService) profile(ctx context.Context, user *domain.User) (*domain.Profile, error) {
	roles, err := s.roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	codes := make([]string, 0, len(roles))
	for _, r := range roles {
		codes = append(codes, r.Code)
	}
	return &domain.Profile{User: user, Roles: codes}, nil
}
