// Package config exposes process-level settings of the carprice web app.
// Every value is read from the environment; LoadEnvFile can seed the
// environment from a dotenv file before the first lookup.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

// LegacyDefaultSecret is the fallback key the first deployment shipped with.
// It is public and therefore never accepted.
const LegacyDefaultSecret = "default-fallback-key"

// MinSecretLength is the shortest SECRET_KEY accepted for cookie signing.
const MinSecretLength = 32

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

// LoadEnvFile loads variables from path without overriding ones already set.
// A missing file is not an error when path is the default ".env".
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err != nil && path == ".env" && os.IsNotExist(err) {
		return nil
	}
	return err
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("CARPRICE_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("CARPRICE_DEBUG") == "true"
}

func GetDBFolderPath() string {
	return getEnv("CARPRICE_DB_FOLDER", "db")
}

func GetLogFolder() string {
	return getEnv("CARPRICE_LOG_FOLDER", "log")
}

func GetModelPath() string {
	return getEnv("MODEL_PATH", "model/car_price_model.json")
}

func GetListen() string {
	return os.Getenv("CARPRICE_LISTEN")
}

func GetPort() (int, error) {
	port, err := getIntEnv("CARPRICE_PORT", 5000)
	if err != nil {
		return 0, fmt.Errorf("invalid CARPRICE_PORT: %w", err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid CARPRICE_PORT: %d out of range", port)
	}
	return port, nil
}

func GetCertFile() string {
	return os.Getenv("CARPRICE_CERT_FILE")
}

func GetKeyFile() string {
	return os.Getenv("CARPRICE_KEY_FILE")
}

// GetSessionMaxAge returns the session lifetime in minutes.
func GetSessionMaxAge() (int, error) {
	minutes, err := getIntEnv("SESSION_MAX_AGE_MINUTES", 60)
	if err != nil {
		return 0, fmt.Errorf("invalid SESSION_MAX_AGE_MINUTES: %w", err)
	}
	if minutes <= 0 {
		return 0, fmt.Errorf("invalid SESSION_MAX_AGE_MINUTES: %d must be positive", minutes)
	}
	return minutes, nil
}

// GetSessionStore returns "cookie" or "redis".
func GetSessionStore() (string, error) {
	store := strings.ToLower(getEnv("SESSION_STORE", "cookie"))
	switch store {
	case "cookie":
		return store, nil
	case "redis":
		if GetRedisURL() == "" {
			return "", fmt.Errorf("SESSION_STORE=redis requires REDIS_URL")
		}
		return store, nil
	default:
		return "", fmt.Errorf("unknown SESSION_STORE %q", store)
	}
}

func GetRedisURL() string {
	return os.Getenv("REDIS_URL")
}

// GetLoginRateLimit returns the allowed auth form posts per minute per client.
// Zero disables the limiter.
func GetLoginRateLimit() (int, error) {
	limit, err := getIntEnv("LOGIN_RATE_LIMIT", 20)
	if err != nil {
		return 0, fmt.Errorf("invalid LOGIN_RATE_LIMIT: %w", err)
	}
	if limit < 0 {
		return 0, fmt.Errorf("invalid LOGIN_RATE_LIMIT: %d", limit)
	}
	return limit, nil
}

// GetSecretKey returns the session signing key. Startup must fail when it
// errors: there is no usable default.
func GetSecretKey() (string, error) {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return "", fmt.Errorf("SECRET_KEY is not set")
	}
	if secret == LegacyDefaultSecret {
		return "", fmt.Errorf("SECRET_KEY must not be the public default value")
	}
	if len(secret) < MinSecretLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}
	return secret, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	return parsed, nil
}
