package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/sakif/parking-backend/internal/apperror"
	"github.com/sakif/parking-backend/internal/model"
	"github.com/sakif/parking-backend/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// mysqlDuplicateEntry is MySQL error 1062 (ER_DUP_ENTRY), raised when an
// insert violates a unique key.
const mysqlDuplicateEntry = 1062

// Create inserts a new user row and fills in UserID and CreatedAt.
//
// CONFLICT MAPPING:
// On a duplicate entry MySQL returns error 1062 and quotes the violated key
// name. Because our DDL names the keys explicitly (uq_users_uid,
// uq_users_email), matching on those names tells us precisely which
// constraint fired — we never assume from input order. If both uid and email
// are duplicates, MySQL reports only the first violation it encounters, and
// that single conflict is what the caller sees.
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
		return fmt.Errorf("mysql: inserting user (uid=%s): %w", user.UID, err)
	}

	// The surrogate key is assigned by the store, exactly once, here.
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("mysql: reading new user id: %w", err)
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
		return nil, fmt.Errorf("mysql: getting user by uid %s: %w", uid, err)
	}

	return &u, nil
}

// duplicateKeyError translates MySQL's duplicate-entry error into the
// field-tagged conflict the API reports, or returns nil if err is something
// else entirely.
func duplicateKeyError(err error) error {
	var merr *mysql.MySQLError
	if !errors.As(err, &merr) || merr.Number != mysqlDuplicateEntry {
		return nil
	}

	// Message shape: Duplicate entry 'alice1' for key 'users.uq_users_uid'
	// The key names are ours (see migrate), so this match is stable.
	switch {
	case strings.Contains(merr.Message, "uq_users_uid"):
		return apperror.Conflict("uid", "User ID already exists")
	case strings.Contains(merr.Message, "uq_users_email"):
		return apperror.Conflict("email", "Email already exists")
	default:
		// A duplicate on a key we don't know about — surface it as an
		// internal error rather than mislabeling the conflict.
		return nil
	}
}
