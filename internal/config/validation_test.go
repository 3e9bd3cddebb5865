package config

import (
	"strings"
	"testing"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestValidateGlobalConfig(t *testing.T) {
	tests := []struct {
		name       string
		config     *GlobalConfig
		wantErrors bool
		field      string
	}{
		{
			name:       "defaults",
			config:     DefaultGlobalConfig(),
			wantErrors: false,
		},
		{
			name: "valid with servers",
			config: &GlobalConfig{
				HashAlgorithm: "SHA256",
				DefaultUser:   "deploy",
				DefaultPort:   22,
				Servers: map[string]ServerConfig{
					"prod":    {Host: "prod.example.com", User: "root", Port: 2222},
					"staging": {Host: "10.0.0.5", PasswordAuth: boolPtr(true)},
				},
			},
			wantErrors: false,
		},
		{
			name:       "empty hash algorithm uses default",
			config:     &GlobalConfig{HashAlgorithm: "", DefaultPort: 22},
			wantErrors: false,
		},
		{
			name:       "unsupported hash algorithm",
			config:     &GlobalConfig{HashAlgorithm: "sha512", DefaultPort: 22},
			wantErrors: true,
			field:      "hash_algorithm",
		},
		{
			name:       "negative timeout",
			config:     &GlobalConfig{ConnectTimeout: -1, DefaultPort: 22},
			wantErrors: true,
			field:      "connect_timeout",
		},
		{
			name:       "invalid default user",
			config:     &GlobalConfig{DefaultUser: "Root;id", DefaultPort: 22},
			wantErrors: true,
			field:      "default_user",
		},
		{
			name:       "invalid default port",
			config:     &GlobalConfig{DefaultPort: 70000},
			wantErrors: true,
			field:      "default_port",
		},
		{
			name: "invalid server",
			config: &GlobalConfig{
				DefaultPort: 22,
				Servers:     map[string]ServerConfig{"prod": {Host: "bad host"}},
			},
			wantErrors: true,
			field:      "servers.prod.host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateGlobalConfig(tt.config)
			if tt.wantErrors && !errors.HasErrors() {
				t.Fatal("expected validation errors but got none")
			}
			if !tt.wantErrors && errors.HasErrors() {
				t.Fatalf("unexpected validation errors: %s", errors.Error())
			}
			if tt.field != "" && errors[0].Field != tt.field {
				t.Errorf("expected error on field %q, got %q", tt.field, errors[0].Field)
			}
		})
	}
}

func TestValidateServerConfig(t *testing.T) {
	tests := []struct {
		name       string
		server     string
		config     *ServerConfig
		wantErrors bool
	}{
		{
			name:   "valid config",
			server: "prod",
			config: &ServerConfig{
				Host: "example.com",
				User: "deploy",
				Port: 22,
			},
			wantErrors: false,
		},
		{
			name:       "user and port fall back to defaults",
			server:     "prod",
			config:     &ServerConfig{Host: "example.com"},
			wantErrors: false,
		},
		{
			name:       "missing host",
			server:     "prod",
			config:     &ServerConfig{User: "deploy", Port: 22},
			wantErrors: true,
		},
		{
			name:       "invalid user",
			server:     "prod",
			config:     &ServerConfig{Host: "example.com", User: "De ploy"},
			wantErrors: true,
		},
		{
			name:       "port too high",
			server:     "prod",
			config:     &ServerConfig{Host: "example.com", Port: 70000},
			wantErrors: true,
		},
		{
			name:       "invalid server name",
			server:     "prod;id",
			config:     &ServerConfig{Host: "example.com"},
			wantErrors: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateServerConfig(tt.server, tt.config)
			if tt.wantErrors && !errors.HasErrors() {
				t.Error("expected validation errors but got none")
			}
			if !tt.wantErrors && errors.HasErrors() {
				t.Errorf("unexpected validation errors: %s", errors.Error())
			}
		})
	}
}

func TestValidationErrorsString(t *testing.T) {
	errs := ValidationErrors{
		{Field: "host", Message: "server host is required"},
		{Field: "port", Message: "port must be between 1 and 65535"},
	}
	got := errs.Error()
	if !strings.Contains(got, "host: server host is required") || !strings.Contains(got, "; port:") {
		t.Errorf("unexpected error string %q", got)
	}
	if (ValidationErrors{}).Error() != "" {
		t.Error("expected empty string for no errors")
	}
}
