package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "modernc.org/sqlite"
)

// Store wraps the sqlite handle. All repositories consumed by the
// alerting core are methods on Store so they can be swapped in tests.
type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		return nil, err
	}

	log.Println("Database initialized successfully.")
	return s, nil
}

func (s *Store) createTables() error {
	createUsersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(createUsersTable); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	createAlertsTable := `
	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		exchange TEXT NOT NULL,
		coinpair TEXT NOT NULL,
		indicator TEXT NOT NULL,
		limit_value TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 0,
		is_notified INTEGER NOT NULL DEFAULT 0,
		trigger_value TEXT NOT NULL DEFAULT '0',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(createAlertsTable); err != nil {
		return fmt.Errorf("failed to create alerts table: %w", err)
	}

	createDeviceTokensTable := `
	CREATE TABLE IF NOT EXISTS device_tokens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token TEXT NOT NULL UNIQUE,
		device_type TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(createDeviceTokensTable); err != nil {
		return fmt.Errorf("failed to create device_tokens table: %w", err)
	}

	// alert_id is deliberately SET NULL: the audit trail outlives the
	// alert that produced it.
	createHistoryTable := `
	CREATE TABLE IF NOT EXISTS notification_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		alert_id INTEGER REFERENCES alerts(id) ON DELETE SET NULL,
		result TEXT NOT NULL,
		succeeded INTEGER NOT NULL,
		sent_at TIMESTAMP NOT NULL
	);`
	if _, err := s.db.Exec(createHistoryTable); err != nil {
		return fmt.Errorf("failed to create notification_history table: %w", err)
	}

	createMetricsTable := `
	CREATE TABLE IF NOT EXISTS metrics (
		metric_name TEXT NOT NULL PRIMARY KEY,
		metric_value REAL NOT NULL
	);`
	if _, err := s.db.Exec(createMetricsTable); err != nil {
		return fmt.Errorf("failed to create metrics table: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
