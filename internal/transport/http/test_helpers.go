package http

import (
	"database/sql"
	"testing"
	"time"

	"github.com/taubey/fakester-server/internal/auth"
	"github.com/taubey/fakester-server/internal/store"
	"github.com/taubey/fakester-server/internal/store/sqlite"
)

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	schema := `
	CREATE TABLE users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_guest      BOOLEAN NOT NULL DEFAULT 0,
		session_id    TEXT,
		xp            INTEGER NOT NULL DEFAULT 0,
		spots         INTEGER NOT NULL DEFAULT 0,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	st, err := sqlite.NewWithSetup(":memory:", func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	return st
}

// createTestAuthService creates an auth service for testing.
func createTestAuthService(t *testing.T, st store.Store, jwtSecret string) *auth.Service {
	t.Helper()

	jwtConfig := &auth.JWTConfig{
		Secret:   []byte(jwtSecret),
		Issuer:   "test",
		Audience: "test",
		TTL:      24 * time.Hour,
	}

	return auth.NewService(st, jwtConfig)
}
