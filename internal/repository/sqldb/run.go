package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomasfarkasovsky/trailhead/pkg/models"
)

func (r *SQLRepo) CreateRun(ctx context.Context, run *models.SyncRun) (int64, error) {
	if run == nil {
		return 0, fmt.Errorf("run is nil")
	}
	if run.Status == "" {
		run.Status = models.RunRunning
	}
	if run.Started == 0 {
		run.Started = now()
	}

	res, err := r.q.ExecContext(ctx, `INSERT INTO sync_runs (run_id, status, total, started_at) VALUES (?, ?, ?, ?)`,
		run.RunID, run.Status, run.Total, run.Started)
	if err != nil {
		return 0, fmt.Errorf("insert sync run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	run.ID = id

	return id, nil
}

// FinishRun stores the final status and counters of a run.
func (r *SQLRepo) FinishRun(ctx context.Context, run *models.SyncRun) error {
	if run == nil {
		return fmt.Errorf("run is nil")
	}
	if run.Finished == nil {
		ts := now()
		run.Finished = &ts
	}

	var lastErr sql.NullString
	if run.LastError != "" {
		lastErr = sql.NullString{String: run.LastError, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, `UPDATE sync_runs SET status = ?, total = ?, succeeded = ?, failed = ?, last_error = ?, finished_at = ? WHERE run_id = ?`,
		run.Status, run.Total, run.Succeeded, run.Failed, lastErr, *run.Finished, run.RunID)
	if err != nil {
		return fmt.Errorf("finish sync run %s: %w", run.RunID, err)
	}
	return nil
}

func (r *SQLRepo) GetRun(ctx context.Context, runID string) (*models.SyncRun, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, run_id, status, total, succeeded, failed, last_error, started_at, finished_at FROM sync_runs WHERE run_id = ?`, runID)
	var run models.SyncRun
	var lastErr sql.NullString
	var finished sql.NullInt64
	if err := row.Scan(&run.ID, &run.RunID, &run.Status, &run.Total, &run.Succeeded, &run.Failed, &lastErr, &run.Started, &finished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sync run %s: %w", runID, err)
	}
	run.LastError = lastErr.String
	if finished.Valid {
		f := finished.Int64
		run.Finished = &f
	}

	return &run, nil
}
