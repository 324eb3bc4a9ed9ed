package store

import (
	"context"
	"errors"

	"github.com/epargne/authd/internal/auth/domain"
	"github.com/epargne/authd/pkg/idx"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite
// today) implement it. There is deliberately no transaction surface:
// the schema is a single table and the auth core accepts the narrow
// read-then-write races on status rather than pretending the store
// gives it compare-and-swap.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Users is the user repository. Phone numbers passed in must already be
// normalized (domain.NormalizePhone); the repository does not do it.
type Users interface {
	// GetUserByPhone is the primary lookup, phones are unique.
	GetUserByPhone(ctx context.Context, phone string) (domain.User, error)

	// GetUserByID returns a user by its ULID.
	GetUserByID(ctx context.Context, id idx.ID) (domain.User, error)

	// CreateUser inserts a new user. Returns ErrAlreadyExists when the
	// phone or national id is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateStatus sets the status for the user with this phone and
	// bumps updated_at. Idempotent; a no-op write is not an error.
	UpdateStatus(ctx context.Context, phone string, status domain.Status) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id idx.ID, newHash string) error

	// UpdateDetails applies a partial profile update; nil patch fields
	// are left as they are.
	UpdateDetails(ctx context.Context, id idx.ID, patch domain.DetailsPatch) (domain.User, error)
}
