package db

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/tomasfarkasovsky/trailhead/internal/config"
)

// tlsConfigName is the key the CA-pinned TLS config is registered under in the mysql driver.
const tlsConfigName = "trailhead"

// DSN builds the driver-specific data source name.
func DSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("sqlite path is empty")
		}
		return cfg.Path, nil
	case config.DriverMySQL:
		return mysqlDSN(cfg)
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func mysqlDSN(cfg config.DatabaseConfig) (string, error) {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.Timeout = cfg.ConnectTimeout

	if cfg.SSLCA != "" {
		if err := registerTLS(cfg.Host, cfg.SSLCA); err != nil {
			return "", err
		}
		mc.TLSConfig = tlsConfigName
	}

	return mc.FormatDSN(), nil
}

func registerTLS(host, caFile string) error {
	pem, err := os.ReadFile(caFile)
	if err != nil {
		return fmt.Errorf("read ssl ca: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return fmt.Errorf("no certificates found in %s", caFile)
	}

	if err := mysql.RegisterTLSConfig(tlsConfigName, &tls.Config{
		RootCAs:    pool,
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}); err != nil {
		return fmt.Errorf("register tls config: %w", err)
	}
	return nil
}
