package sqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garnizeh/hersafety/pkg/models"
	"github.com/garnizeh/hersafety/pkg/repository"
)

const userColumns = `id, name, email, password_hash, phone, address, role, created_at`

func (r *SQLRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	role := u.Role
	if role == "" {
		role = models.RoleUser
	}

	var id int64
	err := r.conn.QueryRow(ctx, `INSERT INTO users (name, email, password_hash, phone, address, role, created_at) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
		u.Name, u.Email, u.PasswordHash, u.Phone, u.Address, role, now()).Scan(&id)
	if err != nil {
		return 0, dup(err)
	}

	return id, nil
}

func (r *SQLRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *SQLRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *SQLRepo) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		u       models.User
		address sql.NullString
		created int64
	)
	if err := r.conn.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &address, &u.Role, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, err
	}

	if address.Valid {
		u.Address = &address.String
	}
	u.CreatedAt = fromMillis(created)

	return &u, nil
}

func (r *SQLRepo) UpdateUserRole(ctx context.Context, id int64, role string) error {
	res, err := r.conn.Exec(ctx, `UPDATE users SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}

	return nil
}
