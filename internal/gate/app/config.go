package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL       string // Optional: public site root for shareable invite links (default: http://localhost:8080)
	AdminToken    string // Required: static bearer token protecting the admin surface
	SessionSecret string // Required: HMAC secret for session tokens minted on completed signups

	DatabaseFile string // Optional: path to SQLite database file (default: ./gatehouse.db)
	PepperFile   string // Optional: path to file containing pepper for code hashing (default: ./pepper)

	MailProvider    string // Optional: mail provider (ses, smtp, noop) (default: noop)
	MailFromAddress string // Sender address for verification mail
	MailFromName    string // Sender display name (default: Gatehouse)
	SESRegion       string // SES region (ses provider only)
	SESAccessKey    string // SES access key id (ses provider only)
	SESSecretKey    string // SES secret access key (ses provider only)
	SMTPHost        string // SMTP relay host (smtp provider only)
	SMTPPort        int    // SMTP relay port (default: 587)
	SMTPUser        string // SMTP username
	SMTPPassword    string // SMTP password

	MailTimeout time.Duration // Per-dispatch timeout for outbound mail (default: 10s)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 15m)
	SessionTTL           time.Duration // Session token lifetime (default: 24h)
}

func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "dev")

	// Outside prod the .env file is a convenience; system environment
	// variables always win.
	if env != "prod" {
		_ = godotenv.Load()
	}

	return Config{
		BaseURL:       getEnvOrDefault("GATE_BASE_URL", "http://localhost:8080"),
		AdminToken:    os.Getenv("GATE_ADMIN_TOKEN"),
		SessionSecret: os.Getenv("GATE_SESSION_SECRET"),

		DatabaseFile: getEnvOrDefault("GATE_DATABASE_FILE", "gatehouse.db"),
		PepperFile:   getEnvOrDefault("GATE_PEPPER_FILE", "pepper"),

		MailProvider:    getEnvOrDefault("GATE_MAIL_PROVIDER", "noop"),
		MailFromAddress: os.Getenv("GATE_MAIL_FROM_ADDRESS"),
		MailFromName:    getEnvOrDefault("GATE_MAIL_FROM_NAME", "Gatehouse"),
		SESRegion:       os.Getenv("GATE_SES_REGION"),
		SESAccessKey:    os.Getenv("GATE_SES_ACCESS_KEY_ID"),
		SESSecretKey:    os.Getenv("GATE_SES_SECRET_ACCESS_KEY"),
		SMTPHost:        os.Getenv("GATE_SMTP_HOST"),
		SMTPPort:        getEnvIntOrDefault("GATE_SMTP_PORT", 587),
		SMTPUser:        os.Getenv("GATE_SMTP_USER"),
		SMTPPassword:    os.Getenv("GATE_SMTP_PASSWORD"),
		MailTimeout:     getEnvDurationOrDefault("GATE_MAIL_TIMEOUT", 10*time.Second),

		Env:                  env,
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 15*time.Minute),
		SessionTTL:           getEnvDurationOrDefault("GATE_SESSION_TTL", 24*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
