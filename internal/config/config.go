package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	Development = "development"

	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// DefaultEnvFiles are loaded (when present) before environment variables are parsed.
var DefaultEnvFiles = []string{".env", ".env.local"}

type Config struct {
	Env       string          `yaml:"env" env:"APP_ENV" envDefault:"development"`
	Database  DatabaseConfig  `yaml:"database"`
	Trailhead TrailheadConfig `yaml:"trailhead"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	API       APIConfig       `yaml:"api"`
	Report    ReportConfig    `yaml:"report"`
}

type DatabaseConfig struct {
	Driver         string        `yaml:"driver" env:"DB_DRIVER" envDefault:"sqlite"`
	Path           string        `yaml:"path" env:"DB_PATH" envDefault:"trailhead.db"`
	Host           string        `yaml:"host" env:"DB_HOST"`
	Port           int           `yaml:"port" env:"DB_PORT" envDefault:"3306"`
	User           string        `yaml:"user" env:"DB_USER"`
	Password       string        `yaml:"password" env:"DB_PASS"`
	Name           string        `yaml:"name" env:"DB_NAME"`
	SSLCA          string        `yaml:"ssl_ca" env:"DB_SSL_CA"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" envDefault:"20s"`
}

type TrailheadConfig struct {
	GraphQLURL string        `yaml:"graphql_url" env:"TRAILHEAD_GRAPHQL_URL" envDefault:"https://profile.api.trailhead.com/graphql"`
	Timeout    time.Duration `yaml:"timeout" env:"TRAILHEAD_TIMEOUT" envDefault:"30s"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" envDefault:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" envDefault:"json"`
}

type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url" env:"PUSHGATEWAY_URL"`
	Job            string `yaml:"job" env:"PUSHGATEWAY_JOB" envDefault:"trailhead_sync"`
}

type APIConfig struct {
	Addr          string        `yaml:"addr" env:"API_ADDR" envDefault:":8080"`
	JWTSecret     string        `yaml:"jwt_secret" env:"API_JWT_SECRET"`
	Timeout       time.Duration `yaml:"timeout" env:"API_TIMEOUT" envDefault:"15s"`
	TokenDuration time.Duration `yaml:"token_duration" env:"API_TOKEN_DURATION" envDefault:"24h"`
}

type ReportConfig struct {
	Dir    string `yaml:"dir" env:"REPORT_DIR" envDefault:"."`
	Format string `yaml:"format" env:"REPORT_FORMAT" envDefault:"csv"`
}

// LoadEnv loads the env files that exist and returns how many were loaded.
// Variables already present in the process environment are not overridden.
func LoadEnv(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}

	return len(existing), godotenv.Load(existing...)
}

// LoadConfig builds the configuration from environment variables (with their
// defaults) and then applies the optional YAML file at path on top.
func LoadConfig(path string) (*Config, error) {
	if _, err := LoadEnv(DefaultEnvFiles); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the settings every command needs: store, API client and logging.
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	case DriverMySQL:
		if c.Database.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required for mysql"))
		}
		if c.Database.User == "" {
			errs = append(errs, errors.New("DB_USER is required for mysql"))
		}
		if c.Database.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required for mysql"))
		}
		if c.Database.Port <= 0 {
			errs = append(errs, fmt.Errorf("invalid DB_PORT %d", c.Database.Port))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}

	if _, err := url.ParseRequestURI(c.Trailhead.GraphQLURL); err != nil {
		errs = append(errs, fmt.Errorf("invalid trailhead.graphql_url: %w", err))
	}
	if c.Trailhead.Timeout <= 0 {
		errs = append(errs, errors.New("trailhead.timeout must be positive"))
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.Log.Format))
	}

	switch c.Report.Format {
	case "csv", "xlsx":
	default:
		errs = append(errs, fmt.Errorf("unsupported report format %q", c.Report.Format))
	}

	return errors.Join(errs...)
}

// ValidateAPI checks the settings needed by the report API and token minting.
func (c *Config) ValidateAPI() error {
	if c.API.JWTSecret == "" {
		return errors.New("API_JWT_SECRET is required")
	}
	if c.API.JWTSecret == "supersecretkey" && c.Env != Development {
		return errors.New("insecure API_JWT_SECRET outside development")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}

	return nil
}
