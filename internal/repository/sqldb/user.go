package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomasfarkasovsky/trailhead/pkg/models"
)

func (r *SQLRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, username, name, created_at, updated_at FROM users WHERE username = ?`, username)
	var u models.User
	var name sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &name, &u.Created, &u.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	u.Name = stringPtr(name)

	return &u, nil
}

func (r *SQLRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}
	if u.Created == 0 {
		u.Created = now()
	}
	if u.Updated == 0 {
		u.Updated = u.Created
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO users (username, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		u.Username, nullString(u.Name), u.Created, u.Updated)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", u.Username, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = id

	return id, nil
}

func (r *SQLRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}
	if u.Updated == 0 {
		u.Updated = now()
	}

	_, err := r.q.ExecContext(ctx, `UPDATE users SET name = ?, updated_at = ? WHERE id = ?`, nullString(u.Name), u.Updated, u.ID)
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}
