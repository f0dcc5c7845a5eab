package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	// registers the "mysql" driver
	_ "github.com/go-sql-driver/mysql"
	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/tomasfarkasovsky/trailhead/internal/config"
	"github.com/tomasfarkasovsky/trailhead/internal/logging"
)

// DB wraps the sql.DB for connection management
type DB struct {
	conn   *sql.DB
	driver string
	logger *zap.Logger
}

// New opens a connection with the given driver ("sqlite" or "mysql") and pings it.
func New(ctx context.Context, driver, dsn string, logger *zap.Logger) (*DB, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if driver == config.DriverSQLite {
		// one shared connection for the whole run
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &DB{conn: conn, driver: driver, logger: logging.OrNop(logger)}, nil
}

// Open connects using the database section of the configuration.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	d, err := New(ctx, cfg.Driver, dsn, logger)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("database connected", zap.String("driver", cfg.Driver))

	return d, nil
}

// Close closes the DB connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the connection is still alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Driver returns the driver name the connection was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// Exec executes a query
func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, query, args...)
}

// QueryRow executes a query that is expected to return at most one row
func (db *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, query, args...)
}

// QueryRows executes a query returning rows; callers must close them.
func (db *DB) QueryRows(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, query, args...)
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise, including on panic.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetConn returns the underlying sql.DB
func (db *DB) GetConn() *sql.DB {
	return db.conn
}

// FromConn wraps an already opened sql.DB, e.g. one created by sqlmock.
func FromConn(conn *sql.DB, driver string, logger *zap.Logger) *DB {
	return &DB{conn: conn, driver: driver, logger: logging.OrNop(logger)}
}
