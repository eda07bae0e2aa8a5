// Package config loads the process configuration once at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port        string
	MetricsPort string
	LogLevel    string
	TraceStdout bool

	DBDriver   string
	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGDatabase string
	SQLitePath string

	AMQPURL        string
	NotifyExchange string

	// AdminIDs receive a notification for every confirmed booking, in
	// addition to the admin owning the unit.
	AdminIDs []int64

	SuggestHorizonDays int
	SuggestLimit       int
	StatsCron          string
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:           get("PORT", "8080"),
		MetricsPort:    get("METRICS_PORT", "9090"),
		LogLevel:       strings.ToLower(get("LOG_LEVEL", "info")),
		DBDriver:       strings.ToLower(get("DB_DRIVER", DriverPostgres)),
		PGHost:         get("PGHOST", "localhost"),
		PGPort:         get("PGPORT", "5432"),
		PGUser:         get("PGUSER", "postgres"),
		PGPassword:     get("PGPASSWORD", ""),
		PGDatabase:     get("PGDATABASE", "bookings"),
		SQLitePath:     get("SQLITE_PATH", "bookings.db"),
		AMQPURL:        get("AMQP_URL", ""),
		NotifyExchange: get("NOTIFY_EXCHANGE", "booking.events"),
		StatsCron:      get("STATS_CRON", "@every 5m"),
	}

	var err error
	if cfg.TraceStdout, err = strconv.ParseBool(get("TRACE_STDOUT", "false")); err != nil {
		return nil, fmt.Errorf("TRACE_STDOUT: %w", err)
	}
	if cfg.SuggestHorizonDays, err = positiveInt(get("SUGGEST_HORIZON_DAYS", "30")); err != nil {
		return nil, fmt.Errorf("SUGGEST_HORIZON_DAYS: %w", err)
	}
	if cfg.SuggestLimit, err = positiveInt(get("SUGGEST_LIMIT", "5")); err != nil {
		return nil, fmt.Errorf("SUGGEST_LIMIT: %w", err)
	}
	if cfg.AdminIDs, err = parseIDs(get("ADMIN_IDS", "")); err != nil {
		return nil, fmt.Errorf("ADMIN_IDS: %w", err)
	}

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DBDriver)
	}
	return cfg, nil
}

// PostgresDSN assembles the keyword/value connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.PGHost, c.PGPort, c.PGUser, c.PGPassword, c.PGDatabase,
	)
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

func parseIDs(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
