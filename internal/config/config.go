// Package config loads application configuration from environment
// variables.  A .env file in the working directory is honoured by the
// binaries (see godotenv in cmd/) before Load is called.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/JoyalGJ/PG-Management/internal/database"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.
type Config struct {
	Env         string // application environment (dev, test, prod)
	Port        string // HTTP port to listen on
	DBUser      string // database username
	DBPass      string // database password (optional)
	DBHost      string // database host address
	DBPort      string // database port number
	DBName      string // database name
	LogLevel    string // debug, info, warn or error
	LogFormat   string // json or console
	RabbitURL   string // AMQP broker URL; empty disables event publishing
	ActivityLog string // file the event consumer appends to
	AutoMigrate bool   // apply the schema on server start
}

// Load reads configuration values from the environment.  Every missing
// required variable is reported in a single error.
func Load() (Config, error) {
	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
		return v
	}
	cfg := Config{
		Env:         envStr("APP_ENV", "dev"),
		Port:        envStr("APP_PORT", "8080"),
		DBUser:      must("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"),
		DBHost:      must("DB_HOST"),
		DBPort:      envStr("DB_PORT", "3306"),
		DBName:      must("DB_NAME"),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		LogFormat:   envStr("LOG_FORMAT", "json"),
		RabbitURL:   rabbitURL(),
		ActivityLog: envStr("ACTIVITY_LOG", "logs/activity.log"),
		AutoMigrate: envBool("AUTO_MIGRATE", false),
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// IsDev reports whether the service runs in a development environment.
func (c Config) IsDev() bool { return c.Env == "dev" || c.Env == "development" }

// DBOptions returns the connection settings for database.Open.
func (c Config) DBOptions() database.Options {
	return database.Options{
		User:     c.DBUser,
		Password: c.DBPass,
		Host:     c.DBHost,
		Port:     c.DBPort,
		Name:     c.DBName,
		MaxConns: envInt("DB_MAX_CONNS", 25),
	}
}

// rabbitURL accepts both RABBITMQ_URL and AMQP_URL.
func rabbitURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}
