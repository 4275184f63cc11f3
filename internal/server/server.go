// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the "composition root": handlers, middleware, the service layer,
// and the chosen storage backend are all wired together here, in one place,
// instead of living in package-level globals. main.go only builds a Config
// and calls New + Start.
//
// DEPENDENCY CHAIN:
//
//	Config → store (mysql or sqlite) → AuthService → AuthHandler → routes
//
// The service receives the repository interface, not the concrete store;
// the handler receives the service, not the repository. Neither knows which
// database engine is underneath.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/parking-backend/internal/auth"
	"github.com/sakif/parking-backend/internal/handler"
	"github.com/sakif/parking-backend/internal/middleware"
	"github.com/sakif/parking-backend/internal/repository"
	mysqlRepo "github.com/sakif/parking-backend/internal/repository/mysql"
	sqliteRepo "github.com/sakif/parking-backend/internal/repository/sqlite"
	"github.com/sakif/parking-backend/internal/service"
)

// Config holds server configuration, assembled from the environment in
// cmd/server/main.go.
type Config struct {
	Port        int
	FrontendDir string

	// DBDriver selects the storage backend: "mysql" (deployments) or
	// "sqlite" (local development). MySQL uses the Host/User/Password/Name
	// settings; SQLite uses DBPath.
	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	// CORSOrigin is the single allowed browser origin, or "*" to reflect
	// any origin (a deliberate compatibility mode — see middleware.CORS).
	CORSOrigin string
}

// userStore is what the server needs from a storage backend: the repository
// interface the service programs against, plus lifecycle and a liveness
// probe. Both the MySQL and SQLite backends satisfy it.
type userStore interface {
	repository.UserRepository
	Close() error
	Ping() error
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so pooled connections are released cleanly.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     userStore
}

// New creates a Server: opens the configured store, wires the dependency
// chain, and registers all routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	// === CREATE THE STORE ===
	switch cfg.DBDriver {
	case "mysql", "":
		db, err := mysqlRepo.New(mysqlRepo.Config{
			Host:     cfg.DBHost,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Name:     cfg.DBName,
		})
		if err != nil {
			return nil, fmt.Errorf("opening mysql database: %w", err)
		}
		s.db = db
	case "sqlite":
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite database: %w", err)
		}
		s.db = db
	default:
		return nil, fmt.Errorf("unknown DB driver %q (want mysql or sqlite)", cfg.DBDriver)
	}

	if cfg.CORSOrigin == "*" {
		logger.Warn("CORS is in reflect-any mode; every origin on the web can call this API with credentials")
	}

	s.setupRoutes(s.db)

	return s, nil
}

// setupRoutes wires the middleware stack and all route handlers.
//
// ROUTE STRUCTURE:
//
//	POST /api/signup    → register a new user
//	POST /api/login     → verify credentials, return sanitized profile
//	GET  /api/health    → liveness (no DB dependency)
//	GET  /, /signup, /dashboard, /citations, /add-vehicle, /update-parking
//	                    → static frontend pages
//	GET  /static/*      → frontend assets (CSS, JS, images)
//
// MIDDLEWARE ORDER MATTERS — it executes top to bottom:
// RequestID and RealIP enrich the request, the logger observes everything
// (including panics turned into 500s), Recoverer keeps a panicking handler
// from killing the process, CORS runs innermost so even its preflight
// responses are logged.
func (s *Server) setupRoutes(users repository.UserRepository) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.CORS(s.config.CORSOrigin))

	// === API ROUTES ===
	authService := service.NewAuthService(users, auth.NewPasswordService(), s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/health", authHandler.HandleHealth)
	})

	// === PAGE ROUTES ===
	pages := handler.NewPagesHandler(s.config.FrontendDir, s.logger)
	for path, file := range pages.Routes() {
		s.router.Get(path, pages.ServePage(file))
	}
	s.router.Handle("/static/*", pages.Assets("/static/"))
}

// Start runs the HTTP server and blocks until shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new connections
// 2. Wait up to 30s for in-flight requests to finish
// 3. Close the database pool
func (s *Server) Start() error {
	defer s.db.Close()

	// A dead database shouldn't stop the server from coming up — the static
	// pages and the health endpoint don't need it. Probe once and log, so
	// misconfiguration is visible immediately rather than on first signup.
	if err := s.db.Ping(); err != nil {
		s.logger.Warn("database not reachable at startup",
			slog.String("error", err.Error()),
		)
	} else {
		s.logger.Info("database connected")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("frontend", s.config.FrontendDir),
			slog.String("driver", s.config.DBDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
