package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomasfarkasovsky/trailhead/pkg/models"
)

// productKey encodes a nullable product so that it can take part in a plain
// UNIQUE(title, product_key) index: "-" for no product, "=" + product otherwise.
func productKey(product *string) string {
	if product == nil {
		return "-"
	}
	return "=" + *product
}

func (r *SQLRepo) GetCertification(ctx context.Context, title string, product *string) (*models.Certification, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, title, product, created_at, updated_at FROM certifications WHERE title = ? AND product_key = ?`,
		title, productKey(product))
	var c models.Certification
	var prod sql.NullString
	if err := row.Scan(&c.ID, &c.Title, &prod, &c.Created, &c.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("get certification %q: %w", title, err)
	}
	c.Product = stringPtr(prod)

	return &c, nil
}

func (r *SQLRepo) CreateCertification(ctx context.Context, c *models.Certification) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("certification is nil")
	}
	if c.Created == 0 {
		c.Created = now()
	}
	if c.Updated == 0 {
		c.Updated = c.Created
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO certifications (title, product, product_key, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.Title, nullString(c.Product), productKey(c.Product), c.Created, c.Updated)
	if err != nil {
		return 0, fmt.Errorf("insert certification %q: %w", c.Title, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID = id

	return id, nil
}

func (r *SQLRepo) UpdateCertification(ctx context.Context, c *models.Certification) error {
	if c == nil {
		return fmt.Errorf("certification is nil")
	}
	if c.Updated == 0 {
		c.Updated = now()
	}

	_, err := r.q.ExecContext(ctx, `UPDATE certifications SET title = ?, product = ?, product_key = ?, updated_at = ? WHERE id = ?`,
		c.Title, nullString(c.Product), productKey(c.Product), c.Updated, c.ID)
	if err != nil {
		return fmt.Errorf("update certification %d: %w", c.ID, err)
	}
	return nil
}
