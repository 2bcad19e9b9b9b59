package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgemunganga/storefront-checkout/internal/platform/postgres"
	"github.com/google/uuid"
)

// User is the identity record consulted at login. Registration and profile
// management live outside this service.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRepository reads users by email.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

var errUserNotFound = errors.New("user not found")

type postgresUsers struct{ db postgres.DBTX }

// NewPostgresUserRepository creates a PostgreSQL user repository.
func NewPostgresUserRepository(db postgres.DBTX) UserRepository {
	return &postgresUsers{db: db}
}

func (r *postgresUsers) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	query := `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
