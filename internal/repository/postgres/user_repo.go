package postgres

import (
	"context"
	"database/sql"
	"errors"

	"youthevents/internal/domain"
)

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, external_id, email, display_name, user_type, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, external_id, email, display_name, user_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query, u.ID, u.ExternalID, u.Email, u.DisplayName, string(u.Type), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateExternalID
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_id = $1`
	return scanUser(r.DB.QueryRowContext(ctx, query, externalID))
}

func (r *userRepository) AssignRole(ctx context.Context, userID, roleID string) error {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, userID, roleID)
	return err
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var userType string
	err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.DisplayName, &userType, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	u.Type = domain.UserType(userType)
	return u, nil
}
