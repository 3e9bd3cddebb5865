package config

import (
	"fmt"
	"strings"

	"github.com/yoanbernabeu/sshrun/internal/security"
	"github.com/yoanbernabeu/sshrun/internal/ssh"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors holds multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// ValidateGlobalConfig validates the global configuration and every server in it
func ValidateGlobalConfig(config *GlobalConfig) ValidationErrors {
	var errors ValidationErrors

	if _, err := ssh.ParseHashAlgorithm(config.HashAlgorithm); err != nil {
		errors = append(errors, ValidationError{
			Field:   "hash_algorithm",
			Message: "unsupported hash algorithm (use sha1, sha256, or md5)",
		})
	}

	if config.ConnectTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "connect_timeout",
			Message: "connect_timeout cannot be negative",
		})
	}

	if config.DefaultUser != "" {
		if err := security.ValidateUnixUser(config.DefaultUser); err != nil {
			errors = append(errors, ValidationError{Field: "default_user", Message: err.Error()})
		}
	}

	if err := security.ValidatePort(config.DefaultPort); err != nil {
		errors = append(errors, ValidationError{Field: "default_port", Message: err.Error()})
	}

	for _, name := range config.ListServers() {
		server := config.Servers[name]
		errors = append(errors, ValidateServerConfig(name, &server)...)
	}

	return errors
}

// ValidateServerConfig validates a named server configuration. User and port
// may be empty; they fall back to the global defaults.
func ValidateServerConfig(name string, config *ServerConfig) ValidationErrors {
	var errors ValidationErrors
	prefix := "servers." + name + "."

	if err := security.ValidateServerName(name); err != nil {
		errors = append(errors, ValidationError{Field: "servers." + name, Message: err.Error()})
	}

	if config.Host == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + "host",
			Message: "server host is required",
		})
	} else if err := security.ValidateHost(config.Host); err != nil {
		errors = append(errors, ValidationError{Field: prefix + "host", Message: err.Error()})
	}

	if config.User != "" {
		if err := security.ValidateUnixUser(config.User); err != nil {
			errors = append(errors, ValidationError{Field: prefix + "user", Message: err.Error()})
		}
	}

	if err := security.ValidatePort(config.Port); err != nil {
		errors = append(errors, ValidationError{
			Field:   prefix + "port",
			Message: "port must be between 1 and 65535",
		})
	}

	return errors
}
