package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/sakif/parking-backend/internal/apperror"
	"github.com/sakif/parking-backend/internal/auth"
	"github.com/sakif/parking-backend/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// Using a fake (not a mock framework) keeps tests dependency-free and easy
// to read — you can see exactly what the fake does. It mirrors the real
// stores' behavior: auto-increment IDs and field-tagged conflicts.
type fakeUserRepo struct {
	byUID   map[string]*model.User
	byEmail map[string]*model.User
	nextID  int64
	// set to a non-nil error to simulate a database failure
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byUID:   make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	// Like the real stores: check constraints in declaration order, report
	// only the first violation.
	if _, ok := f.byUID[user.UID]; ok {
		return apperror.Conflict("uid", "User ID already exists")
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return apperror.Conflict("email", "Email already exists")
	}
	user.UserID = f.nextID
	f.nextID++
	stored := *user
	f.byUID[user.UID] = &stored
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) GetByUID(_ context.Context, uid string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byUID[uid]
	if !ok {
		return nil, apperror.NotFound("user")
	}
	return u, nil
}

// newTestAuthService returns an AuthService wired with the fake repo and a
// cost-4 password service (bcrypt minimum — makes tests fast).
func newTestAuthService(repo *fakeUserRepo) *AuthService {
	ps := auth.NewPasswordServiceForTest(4)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthService(repo, ps, logger)
}

// validSignup returns a request that passes every validation rule.
func validSignup() SignupRequest {
	return SignupRequest{
		UID:       "alice1",
		Email:     "a@b.com",
		Password:  "secret1",
		FirstName: "Alice",
		LastName:  "Anderson",
		Role:      "user",
	}
}

// =========================================================================
// Signup TESTS
// =========================================================================

func TestSignup_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Signup(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if user.UserID == 0 {
		t.Error("Signup() did not return a store-assigned UserID")
	}
	if user.PasswordHash == "" {
		t.Fatal("Signup() stored no password hash")
	}
	if user.PasswordHash == "secret1" {
		t.Error("Signup() stored the plaintext password")
	}

	// The stored hash must verify against the submitted plaintext.
	ps := auth.NewPasswordServiceForTest(4)
	if !ps.Verify(user.PasswordHash, "secret1") {
		t.Error("stored hash does not verify against the submitted password")
	}
}

func TestSignup_OptionalPhoneNumber(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	// Absent phone → nil (stored as NULL)
	user, err := svc.Signup(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if user.PhoneNumber != nil {
		t.Errorf("PhoneNumber = %v, want nil when not provided", *user.PhoneNumber)
	}

	// Present phone → stored
	req := validSignup()
	req.UID = "bob2"
	req.Email = "bob@b.com"
	req.PhoneNumber = "555-0100"
	user, err = svc.Signup(context.Background(), req)
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if user.PhoneNumber == nil || *user.PhoneNumber != "555-0100" {
		t.Errorf("PhoneNumber = %v, want 555-0100", user.PhoneNumber)
	}
}

func TestSignup_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SignupRequest)
	}{
		{"missing uid", func(r *SignupRequest) { r.UID = "" }},
		{"missing email", func(r *SignupRequest) { r.Email = "" }},
		{"missing password", func(r *SignupRequest) { r.Password = "" }},
		{"missing first name", func(r *SignupRequest) { r.FirstName = "" }},
		{"missing last name", func(r *SignupRequest) { r.LastName = "" }},
		{"missing role", func(r *SignupRequest) { r.Role = "" }},
		{"empty request", func(r *SignupRequest) { *r = SignupRequest{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			svc := newTestAuthService(repo)

			req := validSignup()
			tt.mutate(&req)

			_, err := svc.Signup(context.Background(), req)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Signup() error = %v, want ErrValidation", err)
			}
			// Validation must happen before any side effect.
			if len(repo.byUID) != 0 {
				t.Error("Signup() created a row despite failing validation")
			}
		})
	}
}

func TestSignup_InvalidEmail(t *testing.T) {
	badEmails := []string{
		"no-at-sign.com",
		"missing-domain@",
		"@missing-local.com",
		"no-tld@domain",
		"spaces in@local.com",
		"double@@at.com",
	}

	for _, email := range badEmails {
		t.Run(email, func(t *testing.T) {
			repo := newFakeUserRepo()
			svc := newTestAuthService(repo)

			req := validSignup()
			req.Email = email

			_, err := svc.Signup(context.Background(), req)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("Signup(email=%q) error = %v, want ErrValidation", email, err)
			}

			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Message != "Invalid email format" {
				t.Errorf("message = %q, want %q", appErr.Message, "Invalid email format")
			}
			if len(repo.byUID) != 0 {
				t.Error("Signup() created a row for an invalid email")
			}
		})
	}
}

func TestSignup_ShortPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	req := validSignup()
	req.Password = "12345" // one short of the minimum

	_, err := svc.Signup(context.Background(), req)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Signup() error = %v, want ErrValidation", err)
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) && !strings.Contains(appErr.Message, "at least 6 characters") {
		t.Errorf("message = %q, want password-length message", appErr.Message)
	}
	if len(repo.byUID) != 0 {
		t.Error("Signup() created a row for a short password")
	}
}

func TestSignup_DuplicateUID(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Signup(context.Background(), validSignup()); err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}

	req := validSignup()
	req.Email = "different@b.com"
	_, err := svc.Signup(context.Background(), req)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Signup() error = %v, want ErrConflict", err)
	}

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatal("conflict error is not an *AppError")
	}
	if appErr.Field != "uid" {
		t.Errorf("conflict Field = %q, want %q", appErr.Field, "uid")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Signup(context.Background(), validSignup()); err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}

	req := validSignup()
	req.UID = "different"
	_, err := svc.Signup(context.Background(), req)

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Signup() error = %v, want a conflict AppError", err)
	}
	if appErr.Field != "email" {
		t.Errorf("conflict Field = %q, want %q", appErr.Field, "email")
	}
}

func TestSignup_RepositoryError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = errors.New("connection reset by peer")
	svc := newTestAuthService(repo)

	_, err := svc.Signup(context.Background(), validSignup())
	if err == nil {
		t.Fatal("Signup() should propagate repository errors")
	}
	// A store failure is not a validation/conflict/auth error — it must fall
	// through to the handler's generic 500 mapping.
	if errors.Is(err, apperror.ErrValidation) || errors.Is(err, apperror.ErrConflict) {
		t.Errorf("store failure mapped to a client-fault error: %v", err)
	}
}

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Signup(context.Background(), validSignup()); err != nil {
		t.Fatalf("setup signup: %v", err)
	}

	user, err := svc.Login(context.Background(), "alice1", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.UID != "alice1" {
		t.Errorf("user.UID = %q, want %q", user.UID, "alice1")
	}
	if user.UserID == 0 {
		t.Error("user.UserID not set")
	}
}

func TestLogin_MissingFields(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	for _, tc := range []struct {
		name          string
		uid, password string
	}{
		{"missing uid", "", "secret1"},
		{"missing password", "alice1", ""},
		{"missing both", "", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.uid, tc.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Login() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestLogin_UnknownUIDAndWrongPasswordAreIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Signup(context.Background(), validSignup()); err != nil {
		t.Fatalf("setup signup: %v", err)
	}

	_, unknownErr := svc.Login(context.Background(), "nobody", "secret1")
	_, wrongPassErr := svc.Login(context.Background(), "alice1", "wrong-password")

	for name, err := range map[string]error{
		"unknown uid":    unknownErr,
		"wrong password": wrongPassErr,
	} {
		if !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("%s: error = %v, want ErrUnauthorized", name, err)
		}
	}

	// The client-visible messages must be byte-identical, or the difference
	// would reveal which user IDs exist.
	if unknownErr.Error() != wrongPassErr.Error() {
		t.Errorf("error messages differ: %q vs %q", unknownErr.Error(), wrongPassErr.Error())
	}
}

func TestLogin_ProfileExcludesPasswordHash(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Signup(context.Background(), validSignup()); err != nil {
		t.Fatalf("setup signup: %v", err)
	}

	user, err := svc.Login(context.Background(), "alice1", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	profile := user.Profile()
	if profile.UserID != user.UserID || profile.UID != "alice1" ||
		profile.Email != "a@b.com" || profile.Role != "user" {
		t.Errorf("Profile() = %+v, missing expected fields", profile)
	}

	// No serialization of the profile may contain password material.
	encoded, err := json.Marshal(profile)
	if err != nil {
		t.Fatalf("marshaling profile: %v", err)
	}
	if strings.Contains(string(encoded), "password") {
		t.Errorf("Profile JSON leaks password material: %s", encoded)
	}
	if strings.Contains(string(encoded), user.PasswordHash) {
		t.Errorf("Profile JSON contains the stored hash: %s", encoded)
	}
}

func TestLogin_RepositoryError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getErr = errors.New("driver: bad connection")
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "alice1", "secret1")
	if err == nil {
		t.Fatal("Login() should propagate repository errors")
	}
	// A store failure must NOT masquerade as bad credentials.
	if errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("store failure mapped to Unauthorized: %v", err)
	}
}
