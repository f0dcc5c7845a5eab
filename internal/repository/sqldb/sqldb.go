package sqldb

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/tomasfarkasovsky/trailhead/internal/db"
	"github.com/tomasfarkasovsky/trailhead/internal/logging"
	"github.com/tomasfarkasovsky/trailhead/pkg/repository"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLRepo implements the repository interfaces on top of the internal DB
// wrapper. The same queries run on sqlite and mysql.
type SQLRepo struct {
	conn   *db.DB
	q      querier
	logger *zap.Logger
}

// Ensure SQLRepo implements the public interfaces.
var _ repository.UserRepo = (*SQLRepo)(nil)
var _ repository.CertificationRepo = (*SQLRepo)(nil)
var _ repository.UserCertificationRepo = (*SQLRepo)(nil)
var _ repository.CertStore = (*SQLRepo)(nil)
var _ repository.Transactor = (*SQLRepo)(nil)
var _ repository.RosterRepo = (*SQLRepo)(nil)
var _ repository.RunRepo = (*SQLRepo)(nil)
var _ repository.StatsRepo = (*SQLRepo)(nil)

func New(conn *db.DB, logger *zap.Logger) *SQLRepo {
	return &SQLRepo{conn: conn, q: conn.GetConn(), logger: logging.OrNop(logger)}
}

// WithTx runs fn with a repo whose statements all go through one transaction.
func (r *SQLRepo) WithTx(ctx context.Context, fn func(repository.CertStore) error) error {
	return r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(&SQLRepo{conn: r.conn, q: tx, logger: r.logger})
	})
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
