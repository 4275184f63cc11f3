// Package main is the entry point for the parking management backend.
//
// The main package stays minimal — its job is to:
// 1. Read configuration (from env vars)
// 2. Create dependencies (logger, server)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
// This separation makes the app testable and its components reusable.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/parking-backend/internal/server"
)

// port is deliberately a constant, not configuration. The frontend pages are
// written against http://localhost:3000 and every deployment binds the same port.
const port = 3000

// getenv returns the value of the environment variable named by key,
// or fallback if the variable is unset or empty.
func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// === 1. SET UP LOGGING ===
	// slog.New creates a structured logger. slog.NewTextHandler outputs
	// human-readable logs to the terminal.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// === 2. READ CONFIGURATION ===
	// The database settings mirror a standard MySQL client config: host, user,
	// password, database name. Every value has a development default so
	// `go run ./cmd/server` works against a local MySQL with no setup beyond
	// creating the parking_management database.
	//
	// DB_DRIVER selects the storage backend:
	//   "mysql"  (default) — shared server database, the deployment target
	//   "sqlite" — embedded single-file database for local development;
	//              uses DB_PATH instead of the host/user/password settings
	cfg := server.Config{
		Port:       port,
		DBDriver:   getenv("DB_DRIVER", "mysql"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBUser:     getenv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"), // empty password is a valid local-dev value
		DBName:     getenv("DB_NAME", "parking_management"),
		DBPath:     getenv("DB_PATH", "data/parking.db"),
		CORSOrigin: getenv("CORS_ORIGIN", "http://127.0.0.1:5500"),
	}

	// === 3. RESOLVE THE FRONTEND DIRECTORY ===
	// The static HTML pages (main, signup, dashboard, ...) live in a sibling
	// frontend directory. filepath.Abs makes log output unambiguous about
	// which directory is actually being served.
	frontendDir, err := filepath.Abs(getenv("FRONTEND_DIR", "../parking-frontend"))
	if err != nil {
		logger.Error("resolving frontend directory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	cfg.FrontendDir = frontendDir

	// Ensure the data directory exists when running on the embedded database.
	if cfg.DBDriver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", filepath.Dir(cfg.DBPath)),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// === 4. CREATE AND START THE SERVER ===
	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
