package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/epargne/authd/internal/auth/domain"
	"github.com/epargne/authd/internal/auth/store"
	"github.com/epargne/authd/pkg/idx"
)

const userColumns = `id, name, surname, national_id, password_hash, phone, status, created_at, updated_at`

type usersRepo struct {
	db *sql.DB
}

func (r *usersRepo) GetUserByPhone(ctx context.Context, phone string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone = ?`, phone)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id idx.ID) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id.String())
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, surname, national_id, password_hash, phone, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID.String(),
		u.Name,
		u.Surname,
		u.NationalID,
		u.PasswordHash,
		u.Phone,
		string(u.Status),
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	return mapConflict(err)
}

func (r *usersRepo) UpdateStatus(ctx context.Context, phone string, status domain.Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET status = ?, updated_at = ? WHERE phone = ?`,
		string(status), time.Now().UTC(), phone)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id idx.ID, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), id.String())
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) UpdateDetails(ctx context.Context, id idx.ID, patch domain.DetailsPatch) (domain.User, error) {
	u, err := r.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Surname != nil {
		u.Surname = *patch.Surname
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.NationalID != nil {
		u.NationalID = *patch.NationalID
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, surname = ?, national_id = ?, phone = ?, updated_at = ? WHERE id = ?`,
		u.Name, u.Surname, u.NationalID, u.Phone, time.Now().UTC(), id.String())
	if err != nil {
		return domain.User{}, mapConflict(err)
	}

	return r.GetUserByID(ctx, id)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
