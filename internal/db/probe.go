package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomasfarkasovsky/trailhead/internal/config"
)

// ProbeResult is what check-db reports about a live connection.
type ProbeResult struct {
	SelectOne     int
	ServerVersion string
	// SSLCipher is the negotiated cipher on mysql; empty when the link is not encrypted.
	SSLCipher string
}

// Probe runs the connectivity checks: SELECT 1, the server version and, on
// mysql, the TLS cipher in use.
func Probe(ctx context.Context, d *DB) (ProbeResult, error) {
	var res ProbeResult
	if err := d.QueryRow(ctx, `SELECT 1`).Scan(&res.SelectOne); err != nil {
		return res, fmt.Errorf("select 1: %w", err)
	}

	switch d.Driver() {
	case config.DriverSQLite:
		if err := d.QueryRow(ctx, `SELECT sqlite_version()`).Scan(&res.ServerVersion); err != nil {
			return res, fmt.Errorf("sqlite version: %w", err)
		}
	case config.DriverMySQL:
		if err := d.QueryRow(ctx, `SELECT VERSION()`).Scan(&res.ServerVersion); err != nil {
			return res, fmt.Errorf("mysql version: %w", err)
		}
		var name string
		var cipher sql.NullString
		if err := d.QueryRow(ctx, `SHOW STATUS LIKE 'Ssl_cipher'`).Scan(&name, &cipher); err != nil && err != sql.ErrNoRows {
			return res, fmt.Errorf("ssl status: %w", err)
		}
		res.SSLCipher = cipher.String
	}

	return res, nil
}
