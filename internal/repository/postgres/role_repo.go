package postgres

import (
	"context"
	"database/sql"
	"errors"

	"youthevents/internal/domain"
)

type roleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) domain.RoleRepository {
	return &roleRepository{DB: db}
}

func (r *roleRepository) Ensure(ctx context.Context, role *domain.Role) (bool, error) {
	query := `
		INSERT INTO roles (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
	`
	res, err := r.DB.ExecContext(ctx, query, role.ID, string(role.Name))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *roleRepository) GetByName(ctx context.Context, name domain.TeamRole) (*domain.Role, error) {
	query := `
		SELECT id, name
		FROM roles
		WHERE name = $1
	`
	role := &domain.Role{}
	var roleName string
	err := r.DB.QueryRowContext(ctx, query, string(name)).Scan(&role.ID, &roleName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	role.Name = domain.TeamRole(roleName)
	return role, nil
}

func (r *roleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Role, error) {
	query := `
		SELECT r.id, r.name
		FROM roles r
		INNER JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		role := &domain.Role{}
		var roleName string
		if err := rows.Scan(&role.ID, &roleName); err != nil {
			return nil, err
		}
		role.Name = domain.TeamRole(roleName)
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
