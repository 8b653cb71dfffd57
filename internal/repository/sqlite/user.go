package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/nayeem/foodjudge/internal/apperror"
	"github.com/nayeem/foodjudge/internal/model"
	"github.com/nayeem/foodjudge/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user row, generating the internal ID and
// timestamps. The email UNIQUE constraint is the source of truth for
// duplicates: a violation is translated into apperror.Conflict so two
// concurrent sign-ups for the same email cannot both succeed.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, persona, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Persona,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("User already exists")
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}

	return nil
}

// GetByEmail retrieves a user by email. Returns apperror.ErrNotFound
// (wrapped) if no such row exists.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, persona, created_at, updated_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Persona,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", email, err)
	}

	return &u, nil
}

// UpdatePersona overwrites the persona for an existing user. Last write
// wins when two requests race on the same email.
func (db *DB) UpdatePersona(ctx context.Context, email, persona string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET persona = ?, updated_at = ? WHERE email = ?`,
		persona, time.Now(), email,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating persona for %s: %w", email, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating persona for %s: %w", email, err)
	}
	if affected == 0 {
		return apperror.NotFound("User not found")
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The modernc driver exposes it as a plain error whose message
// carries the SQLite error text, so string matching is the practical test.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
