package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/NanamiNakano/apnoxide/internal/apns"
)

// Config carries everything the server and worker need to boot.
type Config struct {
	HTTPAddr    string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   string

	APNs APNsConfig
}

// APNsConfig identifies the sending client. The signing key comes from a
// local .p8 file or, when APNS_KEY_CIPHERTEXT is set, from an AWS
// KMS-encrypted blob decrypted at startup.
type APNsConfig struct {
	TeamID        string
	KeyID         string
	KeyFile       string
	KeyCiphertext string
	Topic         string
	Environment   string
}

// Load reads configuration from the environment, with .env as a fallback
// for local development.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg := &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		APNs: APNsConfig{
			TeamID:        os.Getenv("APNS_TEAM_ID"),
			KeyID:         os.Getenv("APNS_KEY_ID"),
			KeyFile:       os.Getenv("APNS_KEY_FILE"),
			KeyCiphertext: os.Getenv("APNS_KEY_CIPHERTEXT"),
			Topic:         os.Getenv("APNS_TOPIC"),
			Environment:   getEnv("APNS_ENVIRONMENT", "production"),
		},
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = databaseURLFromParts()
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if cfg.APNs.TeamID == "" || cfg.APNs.KeyID == "" || cfg.APNs.Topic == "" {
		return nil, fmt.Errorf("APNS_TEAM_ID, APNS_KEY_ID and APNS_TOPIC environment variables are required")
	}
	if cfg.APNs.KeyFile == "" && cfg.APNs.KeyCiphertext == "" {
		return nil, fmt.Errorf("one of APNS_KEY_FILE or APNS_KEY_CIPHERTEXT is required")
	}
	if _, err := cfg.APNs.Endpoint(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Endpoint maps the configured environment name to an APNs endpoint preset.
func (c APNsConfig) Endpoint() (apns.Endpoint, error) {
	switch c.Environment {
	case "production":
		return apns.Production(), nil
	case "production-alt":
		return apns.ProductionAlternate(), nil
	case "development", "sandbox":
		return apns.Development(), nil
	case "development-alt", "sandbox-alt":
		return apns.DevelopmentAlternate(), nil
	default:
		return apns.Endpoint{}, fmt.Errorf("unknown APNS_ENVIRONMENT %q", c.Environment)
	}
}

// SigningKey resolves the PEM signing key material. KMS ciphertext wins over
// a key file when both are set.
func (c APNsConfig) SigningKey() ([]byte, error) {
	if c.KeyCiphertext != "" {
		return DecryptSigningKey(c.KeyCiphertext)
	}
	key, err := os.ReadFile(c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("read signing key file: %w", err)
	}
	return key, nil
}

func databaseURLFromParts() string {
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "")
	dbName := getEnv("DB_NAME", "apnoxide")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
