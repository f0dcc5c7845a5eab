package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomasfarkasovsky/trailhead/pkg/models"
)

func (r *SQLRepo) GetUserCertification(ctx context.Context, userID, certID int64) (*models.UserCertification, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, user_id, cert_id, date_completed, date_expired, created_at, updated_at FROM user_certifications WHERE user_id = ? AND cert_id = ?`,
		userID, certID)
	var uc models.UserCertification
	var expired sql.NullString
	if err := row.Scan(&uc.ID, &uc.UserID, &uc.CertID, &uc.DateCompleted, &expired, &uc.Created, &uc.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("get user certification (%d, %d): %w", userID, certID, err)
	}
	uc.DateExpired = stringPtr(expired)

	return &uc, nil
}

func (r *SQLRepo) CreateUserCertification(ctx context.Context, uc *models.UserCertification) (int64, error) {
	if uc == nil {
		return 0, fmt.Errorf("user certification is nil")
	}
	if uc.Created == 0 {
		uc.Created = now()
	}
	if uc.Updated == 0 {
		uc.Updated = uc.Created
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO user_certifications (user_id, cert_id, date_completed, date_expired, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		uc.UserID, uc.CertID, uc.DateCompleted, nullString(uc.DateExpired), uc.Created, uc.Updated)
	if err != nil {
		return 0, fmt.Errorf("insert user certification (%d, %d): %w", uc.UserID, uc.CertID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	uc.ID = id

	return id, nil
}

// UpdateUserCertification writes dates and updated_at exactly as given; the
// caller decides whether updated_at moves.
func (r *SQLRepo) UpdateUserCertification(ctx context.Context, uc *models.UserCertification) error {
	if uc == nil {
		return fmt.Errorf("user certification is nil")
	}

	_, err := r.q.ExecContext(ctx, `UPDATE user_certifications SET date_completed = ?, date_expired = ?, updated_at = ? WHERE id = ?`,
		uc.DateCompleted, nullString(uc.DateExpired), uc.Updated, uc.ID)
	if err != nil {
		return fmt.Errorf("update user certification %d: %w", uc.ID, err)
	}
	return nil
}

func (r *SQLRepo) ListHeldByUsername(ctx context.Context, username string) ([]models.HeldCertification, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT c.title, c.product, uc.date_completed, uc.date_expired, uc.updated_at
		FROM user_certifications uc
		JOIN users u ON u.id = uc.user_id
		JOIN certifications c ON c.id = uc.cert_id
		WHERE u.username = ?
		ORDER BY uc.date_completed DESC, c.title ASC`, username)
	if err != nil {
		return nil, fmt.Errorf("list certifications for %q: %w", username, err)
	}
	defer rows.Close()

	var out []models.HeldCertification
	for rows.Next() {
		var h models.HeldCertification
		var product, expired sql.NullString
		if err := rows.Scan(&h.Title, &product, &h.DateCompleted, &expired, &h.Updated); err != nil {
			return nil, err
		}
		h.Product = stringPtr(product)
		h.DateExpired = stringPtr(expired)
		out = append(out, h)
	}

	return out, rows.Err()
}
