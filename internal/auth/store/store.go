package store

import (
	"context"
	"errors"

	"github.com/northbndlabs/gatekeeper/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the credential-store boundary. Concrete drivers (sqlite today)
// implement it. User and role records are owned by an external account
// service; this core only reads them and mutates the second-factor and
// last-login fields, so the interface stays deliberately narrow.
type Store interface {
	Users() Users
	Roles() Roles

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByUsername resolves a login name to the full record, role name
	// included. Returns ErrNotFound for unknown usernames.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByID fetches a user by its stable identifier.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateLastLogin records a successful authentication. Not
	// correctness-critical; concurrent logins may race on it.
	UpdateLastLogin(ctx context.Context, userID string) error

	// UpdateTOTPSecret stores a fresh secret, leaving totp_enabled false
	// (the Pending enrollment state).
	UpdateTOTPSecret(ctx context.Context, userID string, secret string) error

	// EnableTOTP flips totp_enabled on. The secret must already be stored.
	EnableTOTP(ctx context.Context, userID string) error

	// ClearTOTP removes the secret and disables the second factor in one
	// atomic update.
	ClearTOTP(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Roles interface {
	// GetRoleByName fetches a role by its unique name.
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// CreateRole inserts a new role (id is ULID).
	CreateRole(ctx context.Context, r domain.Role) error

	// IsEmpty returns true if there are no roles.
	IsEmpty(ctx context.Context) (bool, error)
}
