package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration. Redis is optional: with no RedisHost and no
	// RedisURL the server runs without rate limiting.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Image storage configuration
	S3Bucket  string
	AWSRegion string
}

// LoadConfig creates a new Config instance with values from environment
// variables, falling back to Docker secret files for sensitive values.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:    envOrSecret("SERVER_PORT", "server_port", "8080"),
		ServerHost:    envOrSecret("SERVER_HOST", "server_host", "0.0.0.0"),
		DBHost:        envOrSecret("DB_HOST", "db_host", "localhost"),
		DBPort:        envOrSecret("DB_PORT", "db_port", "5432"),
		DBUser:        envOrSecret("DB_USER", "db_user", ""),
		DBPassword:    envOrSecret("DB_PASSWORD", "db_password", ""),
		DBName:        envOrSecret("DB_NAME", "db_name", ""),
		DBSSLMode:     envOrSecret("DB_SSL_MODE", "db_ssl_mode", "disable"),
		RedisHost:     envOrSecret("REDIS_HOST", "redis_host", ""),
		RedisPort:     envOrSecret("REDIS_PORT", "redis_port", "6379"),
		RedisPassword: envOrSecret("REDIS_PASSWORD", "redis_password", ""),
		RedisURL:      envOrSecret("REDIS_URL", "redis_url", ""),
		JWTSecret:     envOrSecret("JWT_SECRET", "jwt_secret", ""),
		S3Bucket:      envOrSecret("S3_BUCKET_NAME", "s3_bucket_name", ""),
		AWSRegion:     envOrSecret("AWS_REGION", "aws_region", ""),
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", v, err)
		}
		cfg.RedisDB = db
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envOrSecret resolves a configuration value: environment variable first,
// then a Docker secret file, then the default.
func envOrSecret(envName, secretName, fallback string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}
	if v := readSecret(secretName); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
