package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/epargne/authd/internal/auth/domain"
	"github.com/epargne/authd/internal/auth/store"
	"github.com/epargne/authd/pkg/idx"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() store.Users { return &usersRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConflict translates sqlite unique-constraint violations into the
// store sentinel. The modernc driver's error strings carry the sqlite
// "UNIQUE constraint failed" message.
func mapConflict(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (domain.User, error) {
	var (
		u         domain.User
		id        string
		status    string
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(
		&id,
		&u.Name,
		&u.Surname,
		&u.NationalID,
		&u.PasswordHash,
		&u.Phone,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.ID = idx.ID(id)
	u.Status = domain.Status(status)
	u.CreatedAt = createdAt
	u.UpdatedAt = updatedAt
	return u, nil
}
