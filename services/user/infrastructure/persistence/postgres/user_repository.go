package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/paycontrol/pkg/database"
	userdomain "github.com/ghuser/paycontrol/services/user/domain"
	"github.com/ghuser/paycontrol/services/user/domain/models"
)

const userColumns = "id, first_name, last_name, email, password_hash, role, created_at, updated_at"

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

// UserRepository implements repositories.UserRepository against PostgreSQL.
type UserRepository struct {
	db *database.Database
}

// NewUserRepository returns a UserRepository backed by the given pool.
func NewUserRepository(db *database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Save persists a new user. A duplicate email surfaces as ErrEmailTaken via
// the unique index rather than a racy check-then-insert.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	_, err := r.db.DB().ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return userdomain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.DB().QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id,
	)
	return scanUser(row)
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.DB().QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&user.PasswordHash, &user.Role, &user.CreatedAt, &user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}
