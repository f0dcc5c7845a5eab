package sqldb

import (
	"context"
	"fmt"

	"github.com/tomasfarkasovsky/trailhead/pkg/models"
)

func (r *SQLRepo) ListUserStats(ctx context.Context) ([]models.UserStats, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT username, name, total_certifications, active_certifications, certifications_this_year, last_completed
		FROM v_user_certification_stats ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("query stats view: %w", err)
	}
	defer rows.Close()

	var out []models.UserStats
	for rows.Next() {
		var s models.UserStats
		if err := rows.Scan(&s.Username, &s.Name, &s.TotalCertifications, &s.ActiveCertifications, &s.CertificationsThisYear, &s.LastCompleted); err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}
