package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/database"
	"github.com/brewlog-io/brewlog/pkg/models"
)

// UserRepository defines the interface for account data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update applies a partial update and returns the number of rows
	// affected (zero when the account does not exist).
	Update(ctx context.Context, id int64, upd *models.UserUpdate) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct{}

// NewUserRepository creates a new user repository.
func NewUserRepository() UserRepository {
	return &userRepository{}
}

// uniqueViolation is the Postgres error code for unique constraint hits.
const uniqueViolation = "23505"

// Create inserts a new account. A duplicate email reports ErrEmailTaken.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return fmt.Errorf("no request scope in context")
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := scope.Conn.QueryRow(ctx, query,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves an account by id.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no request scope in context")
	}

	query := `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1`

	var user models.User
	err := scope.Conn.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves an account by email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no request scope in context")
	}

	query := `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1`

	var user models.User
	err := scope.Conn.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Update applies the supplied attributes only.
func (r *userRepository) Update(ctx context.Context, id int64, upd *models.UserUpdate) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	setClauses := []string{}
	args := []interface{}{}
	arg := 1

	if upd.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", arg))
		args = append(args, *upd.Name)
		arg++
	}
	if upd.PasswordHash != nil {
		setClauses = append(setClauses, fmt.Sprintf("password_hash = $%d", arg))
		args = append(args, *upd.PasswordHash)
		arg++
	}
	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", arg))
	args = append(args, time.Now())
	arg++

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(setClauses, ", "), arg)
	args = append(args, id)

	result, err := scope.Conn.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update user: %w", err)
	}

	return result.RowsAffected(), nil
}

// Delete removes an account and, via cascading constraints, everything
// it owns.
func (r *userRepository) Delete(ctx context.Context, id int64) (int64, error) {
	scope, ok := database.GetScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no request scope in context")
	}

	result, err := scope.Conn.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}

	return result.RowsAffected(), nil
}

// Ensure userRepository implements UserRepository at compile time.
var _ UserRepository = (*userRepository)(nil)
