package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tomasfarkasovsky/trailhead/pkg/models"
)

// ErrProfileNotFound is returned when a roster change names an unknown username.
var ErrProfileNotFound = errors.New("profile not found")

func (r *SQLRepo) ListActiveUsernames(ctx context.Context) ([]string, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT username FROM trailhead_profiles WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list active profiles: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}

	return out, rows.Err()
}

func (r *SQLRepo) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, username, active, created_at FROM trailhead_profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		var p models.Profile
		var active int
		if err := rows.Scan(&p.ID, &p.Username, &active, &p.Created); err != nil {
			return nil, err
		}
		p.Active = active != 0
		out = append(out, p)
	}

	return out, rows.Err()
}

// AddProfile adds username to the roster. An existing profile is reactivated
// and its id returned.
func (r *SQLRepo) AddProfile(ctx context.Context, username string) (int64, error) {
	if username == "" {
		return 0, fmt.Errorf("username is empty")
	}

	id, _, err := r.lookupProfile(ctx, username)
	if err != nil {
		return 0, err
	}
	if id != 0 {
		if _, err := r.q.ExecContext(ctx, `UPDATE trailhead_profiles SET active = 1 WHERE id = ?`, id); err != nil {
			return 0, fmt.Errorf("reactivate profile %q: %w", username, err)
		}
		return id, nil
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO trailhead_profiles (username, active, created_at) VALUES (?, 1, ?)`, username, now())
	if err != nil {
		return 0, fmt.Errorf("insert profile %q: %w", username, err)
	}
	r.logger.Debug("profile added", zap.String("username", username))

	return res.LastInsertId()
}

func (r *SQLRepo) SetProfileActive(ctx context.Context, username string, active bool) error {
	id, _, err := r.lookupProfile(ctx, username)
	if err != nil {
		return err
	}
	if id == 0 {
		return fmt.Errorf("%q: %w", username, ErrProfileNotFound)
	}

	flag := 0
	if active {
		flag = 1
	}
	if _, err := r.q.ExecContext(ctx, `UPDATE trailhead_profiles SET active = ? WHERE id = ?`, flag, id); err != nil {
		return fmt.Errorf("update profile %q: %w", username, err)
	}
	return nil
}

func (r *SQLRepo) lookupProfile(ctx context.Context, username string) (int64, bool, error) {
	var id int64
	var active int
	err := r.q.QueryRowContext(ctx, `SELECT id, active FROM trailhead_profiles WHERE username = ?`, username).Scan(&id, &active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get profile %q: %w", username, err)
	}
	return id, active != 0, nil
}
