package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/parking-backend/internal/apperror"
	"github.com/sakif/parking-backend/internal/model"
	"github.com/sakif/parking-backend/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user row and fills in UserID and CreatedAt.
//
// CONFLICT MAPPING:
// A duplicate uid or email trips a UNIQUE constraint. We inspect the driver's
// typed error — extended result code SQLITE_CONSTRAINT_UNIQUE (2067) — and
// the column SQLite names in its message ("UNIQUE constraint failed:
// users.uid"). Either or both of uid/email could be duplicates; SQLite
// reports only the first violation it hits, and that is the one we surface.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (uid, email, password_hash, first_name, last_name, phone_number, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.UID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.PhoneNumber, // nil pointer → SQL NULL
		user.Role,
		user.CreatedAt,
	)
	if err != nil {
		if conflict := duplicateKeyError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("sqlite: inserting user (uid=%s): %w", user.UID, err)
	}

	// The surrogate key is assigned by the store, exactly once, here.
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.UserID = id

	return nil
}

// GetByUID retrieves a user by their user-chosen identifier.
// Returns an error wrapping apperror.ErrNotFound if no such user exists.
func (db *DB) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT user_id, uid, email, password_hash, first_name, last_name, phone_number, role, created_at
		 FROM users WHERE uid = ?`,
		uid,
	).Scan(
		&u.UserID,
		&u.UID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.PhoneNumber,
		&u.Role,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("sqlite: getting user by uid %s: %w", uid, err)
	}

	return &u, nil
}

// duplicateKeyError translates a UNIQUE-constraint failure into the
// field-tagged conflict the API reports, or returns nil if err is something
// else entirely.
func duplicateKeyError(err error) error {
	var serr *sqlite.Error
	if !errors.As(err, &serr) || serr.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return nil
	}

	// The extended code tells us *that* a unique constraint fired; the
	// message names *which* one ("UNIQUE constraint failed: users.email").
	switch {
	case strings.Contains(serr.Error(), "users.uid"):
		return apperror.Conflict("uid", "User ID already exists")
	case strings.Contains(serr.Error(), "users.email"):
		return apperror.Conflict("email", "Email already exists")
	default:
		// A unique violation on a column we don't know about — surface it
		// as an internal error rather than mislabeling the conflict.
		return nil
	}
}
