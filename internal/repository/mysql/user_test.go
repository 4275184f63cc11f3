package mysql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"

	"github.com/sakif/parking-backend/internal/apperror"
)

// These tests cover the conflict mapping without a live MySQL server —
// duplicateKeyError only inspects the driver's typed error, so we can feed
// it exactly what the server would have produced. The full insert/lookup
// paths are exercised against the SQLite backend's identical implementation
// (internal/repository/sqlite), which shares the repository contract.

func dupEntryErr(key string) error {
	return &mysql.MySQLError{
		Number:  1062,
		Message: fmt.Sprintf("Duplicate entry 'alice1' for key 'users.%s'", key),
	}
}

func TestDuplicateKeyError_UID(t *testing.T) {
	err := duplicateKeyError(dupEntryErr("uq_users_uid"))
	if err == nil {
		t.Fatal("duplicateKeyError() = nil, want uid conflict")
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicateKeyError() = %v, want a conflict AppError", err)
	}
	if appErr.Field != "uid" {
		t.Errorf("Field = %q, want %q", appErr.Field, "uid")
	}
	if appErr.Message != "User ID already exists" {
		t.Errorf("Message = %q, want %q", appErr.Message, "User ID already exists")
	}
}

func TestDuplicateKeyError_Email(t *testing.T) {
	err := duplicateKeyError(dupEntryErr("uq_users_email"))
	if err == nil {
		t.Fatal("duplicateKeyError() = nil, want email conflict")
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("duplicateKeyError() = %v, want *AppError", err)
	}
	if appErr.Field != "email" {
		t.Errorf("Field = %q, want %q", appErr.Field, "email")
	}
	if appErr.Message != "Email already exists" {
		t.Errorf("Message = %q, want %q", appErr.Message, "Email already exists")
	}
}

func TestDuplicateKeyError_WrappedError(t *testing.T) {
	// errors.As must find the driver error through fmt.Errorf wrapping.
	wrapped := fmt.Errorf("executing insert: %w", dupEntryErr("uq_users_uid"))

	if err := duplicateKeyError(wrapped); err == nil {
		t.Fatal("duplicateKeyError() should unwrap to the driver error")
	}
}

func TestDuplicateKeyError_UnknownKey(t *testing.T) {
	// A unique violation on a key we don't manage must not be mislabeled —
	// returning nil lets the caller surface it as an internal error.
	if err := duplicateKeyError(dupEntryErr("uq_users_something_else")); err != nil {
		t.Errorf("duplicateKeyError() = %v, want nil for unknown key", err)
	}
}

func TestDuplicateKeyError_OtherErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"plain error", errors.New("connection refused")},
		{"other mysql error", &mysql.MySQLError{Number: 1045, Message: "Access denied"}},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := duplicateKeyError(tt.err); err != nil {
				t.Errorf("duplicateKeyError(%v) = %v, want nil", tt.err, err)
			}
		})
	}
}
