package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/getmockd/oasmock/pkg/validation"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap makes every ValidationError match ErrInvalidConfig.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := validateListen(c.Listen); err != nil {
		return err
	}

	if _, err := validation.ParseDraft(c.Validation.Draft); err != nil {
		return &ValidationError{
			Field:   "validation.draft",
			Message: err.Error(),
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown level %q", c.Log.Level),
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return &ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("unknown format %q", c.Log.Format),
		}
	}

	return c.Server.Validate()
}

// Validate checks the server settings.
func (s *ServerConfig) Validate() error {
	if s.ReadTimeout < 0 {
		return &ValidationError{Field: "server.readTimeout", Message: "must not be negative"}
	}
	if s.WriteTimeout < 0 {
		return &ValidationError{Field: "server.writeTimeout", Message: "must not be negative"}
	}
	if s.ShutdownTimeout < 0 {
		return &ValidationError{Field: "server.shutdownTimeout", Message: "must not be negative"}
	}
	if s.MaxBodySize < 0 {
		return &ValidationError{Field: "server.maxBodySize", Message: "must not be negative"}
	}
	if s.CORS != nil && s.CORS.MaxAge < 0 {
		return &ValidationError{Field: "server.cors.maxAge", Message: "must not be negative"}
	}
	return nil
}

func validateListen(addr string) error {
	if addr == "" {
		return &ValidationError{Field: "listen", Message: "listen address is required"}
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return &ValidationError{Field: "listen", Message: err.Error()}
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return &ValidationError{
			Field:   "listen",
			Message: fmt.Sprintf("port must be between 0 and 65535, got %q", port),
		}
	}
	return nil
}
