package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer string // Issuer claim for tokens (default: epargne-auth)

	SigningKeyFile string // Optional: path to a PEM-encoded Ed25519 key; empty generates an ephemeral one
	DatabaseFile   string // Path to SQLite database file (default: ./auth.db)
	PepperFile     string // Path to the password hashing pepper file (default: ./pepper)

	TokenTTL        time.Duration // Lifetime of issued tokens (default: 1 year)
	OTPTTL          time.Duration // Lifetime of one-time codes (default: 1 minute)
	LockoutAttempts int           // Failed logins before a block (default: 3)
	LockoutDuration time.Duration // How long a block lasts (default: 1 minute)
	SweepInterval   time.Duration // Lockout sweep interval (default: 1 minute)

	SMSGatewayURL string // Optional: SMS gateway endpoint; empty logs codes instead
	SMSAPIKey     string // Optional: bearer key for the SMS gateway
	SMSFrom       string // Optional: sender id for outgoing messages

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         getEnvOrDefault("AUTH_ISSUER", "epargne-auth"),
		SigningKeyFile: os.Getenv("AUTH_SIGNING_KEY_FILE"),
		DatabaseFile:   getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:     getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		TokenTTL:        getEnvDurationOrDefault("AUTH_TOKEN_TTL", 365*24*time.Hour),
		OTPTTL:          getEnvDurationOrDefault("AUTH_OTP_TTL", 1*time.Minute),
		LockoutAttempts: getEnvIntOrDefault("AUTH_LOCKOUT_ATTEMPTS", 3),
		LockoutDuration: getEnvDurationOrDefault("AUTH_LOCKOUT_DURATION", 1*time.Minute),
		SweepInterval:   getEnvDurationOrDefault("AUTH_LOCKOUT_SWEEP_INTERVAL", 1*time.Minute),

		SMSGatewayURL: os.Getenv("SMS_GATEWAY_URL"),
		SMSAPIKey:     os.Getenv("SMS_API_KEY"),
		SMSFrom:       os.Getenv("SMS_FROM"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
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

	// Accept duration strings ("1h", "30m", "90s") or plain minutes.
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
