package config

import (
	"fmt"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that everything the server cannot run without is
// present before startup.
func ValidateConfig(cfg *Config) error {
	required := map[string]string{
		"DBHost":    cfg.DBHost,
		"DBPort":    cfg.DBPort,
		"DBUser":    cfg.DBUser,
		"DBName":    cfg.DBName,
		"JWTSecret": cfg.JWTSecret,
	}
	for field, value := range required {
		if value == "" {
			return ValidationError{Field: field, Message: "is required"}
		}
	}

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		return ValidationError{Field: "ServerPort", Message: fmt.Sprintf("invalid port %q", cfg.ServerPort)}
	}
	if _, err := strconv.Atoi(cfg.DBPort); err != nil {
		return ValidationError{Field: "DBPort", Message: fmt.Sprintf("invalid port %q", cfg.DBPort)}
	}

	return nil
}
