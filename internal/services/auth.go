package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gymbooking/internal/domain"
)

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo  domain.UserRepository
	roleRepo  domain.RoleRepository
	hasher    domain.PasswordHasher
	issuer    domain.TokenIssuer
	isAdmin   func(email string) bool
	jwtExpiry time.Duration
	clock     domain.Clock
}

// NewAuthService creates an AuthService. isAdmin decides which sign-ups get the admin role.
func NewAuthService(
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	isAdmin func(email string) bool,
	jwtExpiry time.Duration,
	clock domain.Clock,
) domain.AuthService {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &authService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		hasher:    hasher,
		issuer:    issuer,
		isAdmin:   isAdmin,
		jwtExpiry: jwtExpiry,
		clock:     clock,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := domain.NewUser(email, strings.TrimSpace(name), hash, salt, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	roleCode := domain.RoleMember
	if s.isAdmin(email) {
		roleCode = domain.RoleAdmin
	}
	for _, code := range rolesFor(roleCode) {
		role, err := s.roleRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to get role %q: %w", code, err)
		}
		if err := s.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
			return nil, fmt.Errorf("failed to assign role: %w", err)
		}
	}
	return user, nil
}

// rolesFor returns the role codes granted on sign-up; admins also book as members.
func rolesFor(code string) []string {
	if code == domain.RoleAdmin {
		return []string{domain.RoleMember, domain.RoleAdmin}
	}
	return []string{domain.RoleMember}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	roles, err := s.roleRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load roles: %w", err)
	}
	roleCodes := make([]string, len(roles))
	for i, r := range roles {
		roleCodes[i] = r.Code
	}

	token, err := s.issuer.Issue(user.ID, user.Email, roleCodes, s.jwtExpiry)
	if err != nil {
		return "", err
	}
	return token, nil
}
