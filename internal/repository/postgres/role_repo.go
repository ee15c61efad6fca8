package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"gymbooking/internal/domain"
)

// roleRepository reads the role catalog seeded by migrations. Roles are
// granted through userRepository.AssignRole, never created here.
type roleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) domain.RoleRepository {
	return &roleRepository{db: db}
}

const selectRoles = `SELECT r.id, r.code FROM roles r`

func (r *roleRepository) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	roles, err := r.query(ctx, selectRoles+` WHERE r.code = $1`, code)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("role %q not seeded: %w", code, domain.ErrNotFound)
	}
	return roles[0], nil
}

// ListByUserID returns the user's roles ordered by code; a user without grants gets an empty slice.
func (r *roleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	return r.query(ctx, selectRoles+`
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.code`, userID)
}

func (r *roleRepository) query(ctx context.Context, q string, args ...any) ([]*domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	roles := make([]*domain.Role, 0, 2)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Code); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, &role)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return roles, nil
}
