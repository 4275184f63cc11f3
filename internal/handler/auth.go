// Package handler contains the HTTP request handlers.
//
// Handlers are the glue between HTTP and the service layer: they decode the
// request body, call one service method, and encode the result. All business
// rules (validation order, conflict mapping, credential checks) live in
// internal/service — a handler never decides whether a signup is valid, only
// how to say so over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/parking-backend/internal/model"
	"github.com/sakif/parking-backend/internal/service"
)

// AuthService is the slice of the service layer the auth endpoints need.
// Declaring the interface here (at the consumer) lets tests stub it without
// standing up a repository.
type AuthService interface {
	Signup(ctx context.Context, req service.SignupRequest) (*model.User, error)
	Login(ctx context.Context, uid, password string) (*model.User, error)
}

// AuthHandler serves the signup and login endpoints.
type AuthHandler struct {
	auth   AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. Dependencies are injected; the
// handler has no knowledge of how they're constructed.
func NewAuthHandler(auth AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// signupResponse is the success body for POST /api/signup. The new row's
// store-assigned id is returned so the frontend can confirm creation.
type signupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

// loginResponse is the success body for POST /api/login. User is the
// sanitized profile — it structurally cannot carry the password hash.
type loginResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	User    model.Profile `json:"user"`
}

// HandleSignup registers a new user.
//
// HTTP: POST /api/signup
// REQUEST BODY:
//
//	{"uid":"alice1","email":"a@b.com","password":"secret1",
//	 "first_name":"Alice","last_name":"Anderson",
//	 "phone_number":"555-0100","role":"user"}
//
// phone_number is optional; everything else is required. Responses:
// 200 with the new userId, 400 for validation failures and uid/email
// conflicts, 500 for store failures.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	user, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		// Client-fault detail (which field, which conflict) is in the error;
		// writeError picks the status. Log at Info — failed signups are
		// normal traffic, not server trouble.
		h.logger.Info("signup rejected",
			slog.String("uid", req.UID),
			slog.String("reason", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, signupResponse{
		Success: true,
		Message: "User registered successfully",
		UserID:  user.UserID,
	})
}

// loginRequest is the body for POST /api/login.
type loginRequest struct {
	UID      string `json:"uid"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and returns the sanitized profile.
//
// HTTP: POST /api/login
// REQUEST BODY: {"uid":"alice1","password":"secret1"}
//
// A failed login is 401 with a message that does not reveal whether the uid
// exists. No token or cookie is issued — the frontend treats the returned
// profile as its session state.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	user, err := h.auth.Login(r.Context(), req.UID, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		User:    user.Profile(),
	})
}

// healthResponse is the body for GET /api/health.
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HandleHealth is the liveness endpoint.
//
// HTTP: GET /api/health
//
// It deliberately checks nothing: it answers 200 whenever the process is
// serving requests, even if the database is down. Monitoring that wants DB
// health should watch the startup log and query errors, not this endpoint —
// a load balancer pulling the instance on DB trouble would also take down
// the static pages, which don't need the database at all.
func (h *AuthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "Server is running",
		Timestamp: time.Now().UTC(),
	})
}

// decodeJSON decodes the request body into dst, answering 400 itself on
// malformed JSON. Returns a non-nil error when the response is already sent.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Success: false,
			Message: "Invalid JSON body",
		})
		return err
	}
	return nil
}
