// Package config loads the server configuration. Sources are applied in
// order, later ones winning: built-in defaults, an optional YAML file, a
// .env file, the process environment and finally command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/erazemk/popis/internal/db"
)

// ConfigFileEnv names the environment variable holding the YAML config path.
const ConfigFileEnv = "POPIS_CONFIG"

// EnvDevelopment enables development behavior such as error details in
// responses.
const EnvDevelopment = "development"

type Config struct {
	AppEnv   string `yaml:"app_env" env:"APP_ENV"`
	HTTPAddr string `yaml:"http_addr" env:"HTTP_ADDR"`

	DBDriver          string        `yaml:"db_driver" env:"DB_DRIVER"`
	DBPath            string        `yaml:"db_path" env:"DB_PATH"`
	DBHost            string        `yaml:"db_host" env:"DB_HOST"`
	DBPort            int           `yaml:"db_port" env:"DB_PORT"`
	DBUser            string        `yaml:"db_user" env:"DB_USER"`
	DBPassword        string        `yaml:"db_password" env:"DB_PASSWORD"`
	DBName            string        `yaml:"db_name" env:"DB_NAME"`
	DBSSLMode         string        `yaml:"db_sslmode" env:"DB_SSLMODE"`
	DBMaxConns        int           `yaml:"db_max_conns" env:"DB_MAX_CONNS"`
	DBConnMaxLifetime time.Duration `yaml:"db_conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	DBConnectTimeout  time.Duration `yaml:"db_connect_timeout" env:"DB_CONNECT_TIMEOUT"`

	AuthSecret    string   `yaml:"auth_secret" env:"AUTH_SECRET"`
	AuthRequired  bool     `yaml:"auth_required" env:"AUTH_REQUIRED"`
	AdminUsername string   `yaml:"admin_username" env:"ADMIN_USERNAME"`
	CORSOrigins   []string `yaml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`

	AssetTagPrefix string `yaml:"asset_tag_prefix" env:"ASSET_TAG_PREFIX"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFile  string `yaml:"log_file" env:"LOG_FILE"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// Default returns the built-in configuration: an SQLite file in the
// working directory and the development database credentials.
func Default() *Config {
	return &Config{
		AppEnv:            "production",
		HTTPAddr:          ":5000",
		DBDriver:          db.DriverSQLite,
		DBPath:            "popis.sqlite3",
		DBHost:            "localhost",
		DBPort:            5432,
		DBUser:            "inventory_user",
		DBPassword:        "secure123",
		DBName:            "inventorydb",
		DBSSLMode:         "disable",
		DBMaxConns:        10,
		DBConnMaxLifetime: 30 * time.Minute,
		DBConnectTimeout:  60 * time.Second,
		AdminUsername:     "admin",
		CORSOrigins:       []string{"*"},
		AssetTagPrefix:    "AST",
		LogLevel:          "info",
		ShutdownTimeout:   10 * time.Second,
	}
}

// Load builds the configuration from defaults, the YAML file at path (or
// $POPIS_CONFIG when path is empty), .env and the environment. Flags are
// applied by the caller.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigFileEnv)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// .env never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case db.DriverSQLite:
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite driver")
		}
	case db.DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			return errors.New("DB_HOST and DB_NAME are required for the postgres driver")
		}
		if c.DBPort < 1 || c.DBPort > 65535 {
			return fmt.Errorf("DB_PORT %d is out of range", c.DBPort)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.DBDriver, db.DriverSQLite, db.DriverPostgres)
	}

	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}
	if c.DBConnectTimeout <= 0 {
		return errors.New("DB_CONNECT_TIMEOUT must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR is required")
	}
	if c.AdminUsername == "" {
		return errors.New("ADMIN_USERNAME is required")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

// Development reports whether the server runs in development mode.
func (c *Config) Development() bool {
	return c.AppEnv == EnvDevelopment
}

// PostgresDSN returns the connection URL for the postgres driver.
func (c *Config) PostgresDSN() string {
	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	if c.DBConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(c.DBConnectTimeout.Seconds())))
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// DBOptions returns the options for db.Open.
func (c *Config) DBOptions() db.Options {
	opts := db.Options{
		Driver:          c.DBDriver,
		MaxOpenConns:    c.DBMaxConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	}
	if c.DBDriver == db.DriverPostgres {
		opts.DSN = c.PostgresDSN()
	} else {
		opts.Path = c.DBPath
	}
	return opts
}
