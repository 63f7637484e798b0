package config // package config loads application configuration from environment variables

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name
	LogLevel      string        // logrus level name
	FrontendURL   string        // allowed CORS origin
	StoreTimeout  time.Duration // deadline applied to the store calls of one request
	StaleAfter    time.Duration // rooms and users idle longer than this are swept
	SweepSchedule string        // asynq cron spec for the stale sweep
	RabbitURL     string        // broker for room events; empty disables fan-out
}

// Load reads a .env file when present, then environment variables, and
// returns a Config.  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.
func Load() Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return Config{
		Env:           envStr("APP_ENV", "dev"),
		Port:          envStr("APP_PORT", "8080"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"),
		DBHost:        must("DB_HOST"),
		DBPort:        envStr("DB_PORT", "3306"),
		DBName:        must("DB_NAME"),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		FrontendURL:   envStr("FRONTEND_URL", "http://localhost:5173"),
		StoreTimeout:  envDur("STORE_TIMEOUT", 5*time.Second),
		StaleAfter:    envDur("STALE_AFTER", 16*time.Hour),
		SweepSchedule: envStr("SWEEP_SCHEDULE", "@every 15m"),
		RabbitURL:     rabbitURL(),
	}
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// rabbitURL honours RABBITMQ_URL with AMQP_URL as fallback.  Unlike the DB
// settings there is no default: without a broker the server delivers room
// events to its own websocket hub only.
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
		logrus.Fatalf("missing required env var: %s", key)
	}
	return v
}
