package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	// MinJWTSecretLength is the minimum required length for the token signing secret in production
	MinJWTSecretLength = 32
)

// Database drivers understood by db.Initialize
const (
	DriverSQLite     = "sqlite"
	DriverSQLitePure = "sqlite-pure"
	DriverLibSQL     = "libsql"
	DriverPostgres   = "postgres"
)

type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Database
	DBDriver         string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBPath           string `env:"DB_PATH" envDefault:"db/app.db"`
	DatabaseURL      string `env:"DATABASE_URL"`
	TursoDatabaseURL string `env:"TURSO_DATABASE_URL"`
	TursoAuthToken   string `env:"TURSO_AUTH_TOKEN"`

	// Tokens
	JWTSecret       string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"720h"`

	// HTTP
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	MaxBodySize    string   `env:"MAX_BODY_SIZE" envDefault:"12M"`

	// Document storage (S3-compatible: AWS S3, Cloudflare R2, MinIO)
	UploadDir         string `env:"UPLOAD_DIR" envDefault:"uploads"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3Region          string `env:"S3_REGION" envDefault:"auto"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3PublicURL       string `env:"S3_PUBLIC_URL"`
}

// Load reads .env (if present) and the process environment into a Config
func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("Failed to parse configuration: %v", err)
	}

	if err := ValidateJWTSecret(cfg.JWTSecret, cfg.Environment); err != nil {
		log.Fatalf("[CRITICAL] %v", err)
	}

	// In development, generate a secure secret if none provided
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = GenerateSecureSecret()
		log.Println("[INFO] Generated temporary JWT secret for development. Set JWT_SECRET env var so tokens survive restarts.")
	}

	for i, origin := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	return cfg
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// S3Configured reports whether every setting needed for remote document storage is present
func (c *Config) S3Configured() bool {
	return c.S3AccessKeyID != "" && c.S3SecretAccessKey != "" && c.S3Bucket != ""
}

// ValidateJWTSecret validates the signing secret meets security requirements.
// Outside production an insecure or empty secret only produces a warning.
func ValidateJWTSecret(secret string, environment string) error {
	// Known insecure defaults that must be rejected
	insecureDefaults := []string{
		"dev-secret-change-in-production",
		"dev-secret-key",
		"change-me",
		"secret",
		"development",
		"test",
		"",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				return fmt.Errorf("JWT_SECRET is empty or set to an insecure default value. Generate one with: openssl rand -base64 32")
			}
			if secret != "" {
				log.Printf("[WARNING] JWT_SECRET is set to an insecure default value. This is acceptable only in development.")
			}
			return nil
		}
	}

	if environment == "production" && len(secret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in production (current: %d)", MinJWTSecretLength, len(secret))
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret
// This is used only for development when no secret is provided
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Printf("[WARNING] Failed to generate secure secret: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
