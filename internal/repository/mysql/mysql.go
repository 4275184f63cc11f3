// Package mysql implements repository.UserRepository on a MySQL server.
//
// This is the deployment backend: the parking frontend, the schema, and the
// ops tooling all assume a shared MySQL database. Local development and the
// repository tests use the embedded SQLite backend instead
// (internal/repository/sqlite) — both satisfy the same interface, so the
// rest of the app doesn't care which it gets.
package mysql

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Side-effect import: registers the "mysql" driver with database/sql.
	"github.com/go-sql-driver/mysql"
)

// Config holds the connection settings, mirroring a standard MySQL client
// config: host, user, password, database name.
type Config struct {
	Host     string
	User     string
	Password string
	Name     string
}

// DB wraps a sql.DB connection pool and implements repository.UserRepository.
//
// sql.DB is a bounded connection pool shared across all requests. Each query
// checks out a connection and returns it when the scan finishes — on every
// exit path, including errors — so handlers never hold connections across
// requests and the pool cannot leak.
type DB struct {
	conn *sql.DB
}

// New opens a connection pool to the configured MySQL database and, if the
// server is reachable, ensures the users table exists. An unreachable server
// is not an error — see the Ping comment below.
//
// The DSN is built through mysql.Config rather than string concatenation so
// passwords containing DSN metacharacters can't corrupt it. parseTime makes
// the driver scan DATETIME columns into time.Time.
func New(cfg Config) (*DB, error) {
	// Default MySQL port when the host doesn't carry one.
	addr := cfg.Host
	if !strings.Contains(addr, ":") {
		addr += ":3306"
	}

	dsn := mysql.Config{
		User:                 cfg.User,
		Passwd:               cfg.Password,
		Net:                  "tcp",
		Addr:                 addr,
		DBName:               cfg.Name,
		ParseTime:            true,
		AllowNativePasswords: true,
	}

	conn, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("mysql: opening database: %w", err)
	}

	// Bound the pool. MySQL's default max_connections is 151; a single
	// backend instance taking 25 leaves plenty of headroom for ops tools.
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	db := &DB{conn: conn}

	// sql.Open doesn't connect — Ping forces an immediate connection. An
	// unreachable database is NOT fatal here: the server must still come up
	// so the static pages and the health endpoint stay available while the
	// database is being restarted. The server logs the probe result at
	// startup; queries fail with connection errors until MySQL is back.
	if err := conn.Ping(); err != nil {
		return db, nil
	}

	// Reachable — make sure the schema is in place before taking traffic.
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("mysql: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the database is reachable.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// migrate creates the users table.
//
// The unique keys are NAMED (uq_users_uid, uq_users_email) on purpose:
// duplicate-entry errors from MySQL quote the violated key name, and
// Create's conflict mapping matches on these exact names. Matching a name we
// chose ourselves is stable across MySQL versions and locales, unlike
// scraping column names out of a free-form error message.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			user_id       INT UNSIGNED NOT NULL AUTO_INCREMENT,
			uid           VARCHAR(64)  NOT NULL,
			email         VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			first_name    VARCHAR(100) NOT NULL DEFAULT '',
			last_name     VARCHAR(100) NOT NULL DEFAULT '',
			phone_number  VARCHAR(32)  NULL,
			role          VARCHAR(32)  NOT NULL DEFAULT 'user',
			created_at    DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id),
			UNIQUE KEY uq_users_uid (uid),
			UNIQUE KEY uq_users_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	return nil
}
