package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/podfetch-console/internal/models"
	"github.com/desertthunder/podfetch-console/internal/shared"
)

// UserRepository implements [models.UserRepository] for [models.User] persistence.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Insert validates and stores a new user, then assigns the generated ID.
func (r *UserRepository) Insert(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO users (username, role, password, explicit_consent, created_at) VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Username, string(user.Role), nullString(user.Password), user.ExplicitConsent, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", shared.ErrUserExists, user.Username)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}
	user.ID = id

	return nil
}

// FindByUsername retrieves a user with its password hash.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, role, password, explicit_consent, created_at
		FROM users
		WHERE username = ?
	`

	var (
		user     models.User
		role     string
		password sql.NullString
	)

	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &role, &password, &user.ExplicitConsent, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.Role = models.Role(role)
	user.Password = password.String

	return &user, nil
}

// FindAll lists every user ordered by ID, without passwords.
func (r *UserRepository) FindAll(ctx context.Context) ([]models.UserSummary, error) {
	query := `
		SELECT id, username, role, explicit_consent, created_at
		FROM users
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []models.UserSummary
	for rows.Next() {
		var (
			id        int64
			username  string
			role      string
			consent   bool
			createdAt time.Time
		)

		if err := rows.Scan(&id, &username, &role, &consent, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		users = append(users, models.UserSummary{
			ID:              id,
			Username:        username,
			Role:            models.Role(role),
			ExplicitConsent: consent,
			CreatedAt:       createdAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// Update writes role, password and consent. ID, username and created_at never change.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE users
		SET role = ?, password = ?, explicit_consent = ?
		WHERE username = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		string(user.Role), nullString(user.Password), user.ExplicitConsent, user.Username)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, user.Username)
	}

	return nil
}

// DeleteByUsername removes the account row.
func (r *UserRepository) DeleteByUsername(ctx context.Context, username string) error {
	rows, err := deleteByUsername(ctx, r.db, models.EntityUsers, username)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, username)
	}
	return nil
}
