package database

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Aleph-Alpha/datalayer/v1/mariadb"
	"github.com/Aleph-Alpha/datalayer/v1/postgres"
)

// EnvironmentLocal disables read replicas.
const EnvironmentLocal = "local"

// Config defines the connection settings of a Database.
type Config struct {
	// Driver overrides the database/sql driver name of the selected kind.
	Driver string `yaml:"driver" envconfig:"DB_DRIVER"`

	// Type selects the database kind: "mysql" or "postgres".
	Type string `yaml:"type" envconfig:"DB_TYPE"`

	// URL is the primary (read-write) connection URL.
	URL string `yaml:"url" envconfig:"DB_URL" validate:"required"`

	Username string `yaml:"username" envconfig:"DB_USERNAME"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD"`

	// ReadURLs lists the read replicas. Reads use the primary when empty.
	ReadURLs []string `yaml:"read_urls" envconfig:"DB_READ_URLS" validate:"dive,required"`

	// Environment is the deployment environment. "local" disables replicas.
	Environment string `yaml:"environment" envconfig:"APP_ENV"`

	ConnectionDetails ConnectionDetails `yaml:"connection_details"`

	// MonitorInterval is the health probe period. Defaults to 10s.
	MonitorInterval time.Duration `yaml:"monitor_interval" envconfig:"DB_MONITOR_INTERVAL" validate:"gte=0"`
}

// ConnectionDetails tunes every pool. Zero values use package defaults:
// 50 open connections, 25 idle, one minute lifetime.
type ConnectionDetails struct {
	MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"DB_MAX_OPEN_CONNS" validate:"gte=0"`
	MaxIdleConns    int           `yaml:"max_idle_conns" envconfig:"DB_MAX_IDLE_CONNS" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"DB_CONN_MAX_LIFETIME" validate:"gte=0"`
}

var validate = validator.New()

// Validate checks cfg. An unknown Type yields ErrUnknownDatabaseType.
func (c Config) Validate() error {
	if c.Type != postgres.Kind && c.Type != mariadb.Kind {
		return fmt.Errorf("%w: %q", ErrUnknownDatabaseType, c.Type)
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid database config: field %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid database config: %w", err)
	}
	return nil
}

// ReadTargets returns the replica URLs in use. It is empty in the local
// environment.
func (c Config) ReadTargets() []string {
	if c.Environment == EnvironmentLocal {
		return nil
	}
	return c.ReadURLs
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read database config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse database config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
