package config // package config loads application configuration from environment variables

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultAccessTTL is the access token lifetime used when
// ACCESS_TOKEN_TTL_MIN is not set.
const DefaultAccessTTL = 30 * time.Minute

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The secret is kept out of String output and logs.
type Config struct {
	Env        string        // application environment (e.g. "dev", "prod")
	Port       string        // HTTP port to listen on
	LogLevel   string        // zerolog level name (debug, info, warn, error)
	DBUser     string        // database username
	DBPass     string        // database password (optional)
	DBHost     string        // database host address
	DBPort     string        // database port number
	DBName     string        // database name
	JWTSecret  string        // secret used to sign JWTs
	AccessTTL  time.Duration // access token time-to-live
	BcryptCost int           // bcrypt cost for password hashing

	RabbitURL     string // AMQP broker URL for activity events; empty disables publishing
	EmbeddingsURL string // sentence embedding service; empty disables embeddings

	AdminUsername string // bootstrap admin account, created when absent
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	cfg := Config{
		Env:        envStr("APP_ENV", "dev"),
		Port:       envStr("APP_PORT", "8000"),
		LogLevel:   envStr("LOG_LEVEL", "info"),
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"), // empty allowed
		DBHost:     must("DB_HOST"),
		DBPort:     envStr("DB_PORT", "3306"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		AccessTTL:  time.Duration(envInt("ACCESS_TOKEN_TTL_MIN", int(DefaultAccessTTL/time.Minute))) * time.Minute,
		BcryptCost: normalizeCost(envInt("BCRYPT_COST", bcrypt.DefaultCost)),

		RabbitURL:     rabbitURL(),
		EmbeddingsURL: os.Getenv("EMBEDDINGS_URL"),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminEmail:    envStr("ADMIN_EMAIL", "admin@localhost"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return cfg
}

// Validate reports settings that would make token handling unsafe.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.AccessTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL_MIN must be positive")
	}
	return nil
}

// normalizeCost clamps values outside bcrypt's accepted range to the default.
func normalizeCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

// rabbitURL honours both RABBITMQ_URL and the older AMQP_URL name.
func rabbitURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
