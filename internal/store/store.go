package store

import (
	"context"
	"time"
)

// User represents a user in the system. Identities are opaque strings that
// survive reconnects; guests get throwaway accounts tied to a session id.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	IsGuest      bool
	SessionID    string // for guest session tracking
	XP           int
	Spots        int
	CreatedAt    time.Time
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)
	CreateGuestUser(ctx context.Context, sessionID string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// Store is the full persistence contract.
type Store interface {
	UserStore
	Close() error
}
