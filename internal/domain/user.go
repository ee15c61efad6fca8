package domain

import (
	"context"
	"time"
)

// Role codes.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// User is a gym member who can book blocks.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, name, passwordHash, salt string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Role represents an application role (member or admin).
type Role struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// Identity is the authenticated caller extracted from a token.
type Identity struct {
	UserID string
	Roles  []string
}

// HasRole reports whether the identity carries the role code.
func (i Identity) HasRole(code string) bool {
	for _, r := range i.Roles {
		if r == code {
			return true
		}
	}
	return false
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated identity.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateName(ctx context.Context, id, name string, updatedAt time.Time) error
	AssignRole(ctx context.Context, userID, roleID string) error
}

// RoleRepository defines the interface for role storage
type RoleRepository interface {
	GetByCode(ctx context.Context, code string) (*Role, error)
	ListByUserID(ctx context.Context, userID string) ([]*Role, error)
}

// AuthService defines registration and login.
type AuthService interface {
	SignUp(ctx context.Context, email, password, name string) (*User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// Profile is a user together with their role codes.
// swagger:model Profile
type Profile struct {
	User  *User    `json:"user"`
	Roles []string `json:"roles"`
}

// UserService defines the current user's profile operations.
type UserService interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
	UpdateName(ctx context.Context, id, name string) (*Profile, error)
}
