// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// AuthService is the whole business layer here: signup validation and
// registration, and login verification. It knows nothing about HTTP — the
// handlers translate its errors to status codes — and nothing about SQL —
// it talks to a repository.UserRepository interface, so tests swap in a fake
// and main swaps between the MySQL and SQLite backends.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/sakif/parking-backend/internal/apperror"
	"github.com/sakif/parking-backend/internal/auth"
	"github.com/sakif/parking-backend/internal/model"
	"github.com/sakif/parking-backend/internal/repository"
)

// MinPasswordLength is the minimum accepted signup password length.
const MinPasswordLength = 6

// emailPattern accepts the basic local@domain.tld shape: no whitespace or
// extra @ in either part, and at least one dot in the domain. This is the
// same check the signup form applies client-side; the authoritative
// uniqueness checks live in the database.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService handles signup and login business logic.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// SignupRequest is the structured signup input, decoded from the request
// body by the handler. PhoneNumber is the only optional field.
type SignupRequest struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

// Signup validates the request, hashes the password, and inserts the new
// user. On success the returned user carries the store-assigned UserID.
//
// VALIDATION ORDER (all checks run before any side effect):
//  1. Presence — every required field non-empty
//  2. Email shape
//  3. Password length
//
// Nothing touches the hasher or the store until all three pass, so a
// rejected request provably created no row and burned no bcrypt time.
//
// Uniqueness is NOT checked here — a pre-check would race with concurrent
// signups. The store's UNIQUE constraints are authoritative; the repository
// translates violations into field-tagged conflict errors, which pass
// through untouched.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	if req.UID == "" || req.Email == "" || req.Password == "" ||
		req.FirstName == "" || req.LastName == "" || req.Role == "" {
		return nil, apperror.ValidationFailed("", "All fields are required")
	}

	if !emailPattern.MatchString(req.Email) {
		return nil, apperror.ValidationFailed("email", "Invalid email format")
	}

	if len(req.Password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password", "Password must be at least 6 characters")
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		UID:          req.UID,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = &req.PhoneNumber
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Conflicts carry their own client-safe message — pass through.
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user (uid=%s): %w", req.UID, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.UserID),
		slog.String("uid", user.UID),
	)

	return user, nil
}

// Login verifies a uid/password pair and returns the user on success.
//
// ENUMERATION RESISTANCE:
// An unknown uid and a wrong password for a known uid both return the
// identical Unauthorized error. If the two cases differed — in message,
// status, or even obviously in latency — an attacker could probe which
// user IDs exist. Only the server log records which case actually occurred.
func (s *AuthService) Login(ctx context.Context, uid, password string) (*model.User, error) {
	if uid == "" || password == "" {
		return nil, apperror.ValidationFailed("", "All fields are required")
	}

	user, err := s.users.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Info("login failed: unknown uid", slog.String("uid", uid))
			return nil, apperror.Unauthorized("Invalid credentials")
		}
		return nil, fmt.Errorf("service/auth: looking up user (uid=%s): %w", uid, err)
	}

	if !s.passwords.Verify(user.PasswordHash, password) {
		s.logger.Info("login failed: wrong password", slog.String("uid", uid))
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.UserID),
		slog.String("uid", user.UID),
	)

	return user, nil
}
