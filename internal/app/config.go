package app

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/roster-api/roster/internal/platform/db"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":3000"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	DBPrimaryHost string `envconfig:"DB_PRIMARY_HOST" required:"true"`
	DBReplicaHost string `envconfig:"DB_REPLICA_HOST"`
	DBPort        int    `envconfig:"DB_PORT" default:"5432"`
	DBName        string `envconfig:"DB_NAME" required:"true"`
	DBUsername    string `envconfig:"DB_USERNAME" required:"true"`
	DBPassword    string `envconfig:"DB_PASSWORD" required:"true"`
	DBSSL         bool   `envconfig:"DB_SSL" default:"false"`

	DBPoolMinConns       int32         `envconfig:"DB_POOL_MIN" default:"2"`
	DBPoolMaxConns       int32         `envconfig:"DB_POOL_MAX" default:"20"`
	DBPoolIdleTimeout    time.Duration `envconfig:"DB_POOL_IDLE_TIMEOUT" default:"10s"`
	DBPoolConnectTimeout time.Duration `envconfig:"DB_POOL_CONNECTION_TIMEOUT" default:"5s"`
	DBStatementTimeout   time.Duration `envconfig:"DB_STATEMENT_TIMEOUT" default:"30s"`
}

// LoadConfig reads configuration from environment variables. Missing
// mandatory credentials abort startup before any traffic is served.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.DBReplicaHost == "" {
		cfg.DBReplicaHost = cfg.DBPrimaryHost
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// IsDevelopment names the only environment where diagnostics may reach
// callers. Staging-like environment names redact the same as production.
func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}

// PrimaryPool returns pool configuration for the writable primary.
func (c *Config) PrimaryPool() db.Config {
	return c.poolConfig(c.DBPrimaryHost)
}

// ReplicaPool returns pool configuration for the read replica.
func (c *Config) ReplicaPool() db.Config {
	return c.poolConfig(c.DBReplicaHost)
}

func (c *Config) poolConfig(host string) db.Config {
	sslMode := "disable"
	if c.DBSSL {
		sslMode = "require"
	}
	return db.Config{
		DSN: fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s application_name=roster",
			host, c.DBPort, c.DBName, c.DBUsername, c.DBPassword, sslMode),
		MinConns:         c.DBPoolMinConns,
		MaxConns:         c.DBPoolMaxConns,
		IdleTimeout:      c.DBPoolIdleTimeout,
		ConnectTimeout:   c.DBPoolConnectTimeout,
		StatementTimeout: c.DBStatementTimeout,
	}
}
