package security

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

var (
	// serverNameRegex validates server configuration names
	// Allows: letters, numbers, underscores, hyphens
	// Length: 1-64 characters
	serverNameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9_-]{0,62}[a-zA-Z0-9])?$`)

	// unixUserRegex validates Unix usernames
	// Standard POSIX username rules
	// Length: 1-32 characters
	unixUserRegex = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

	// hostnameLabelRegex validates one DNS label
	hostnameLabelRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)

	// sudoPasswordRegex matches the password fed to sudo -S by the exec path
	sudoPasswordRegex = regexp.MustCompile(`echo "[^"]*" \| sudo -S`)

	// sensitiveLogPatterns used by SanitizeCommandForLog to mask secrets
	sensitiveLogPatterns = []string{
		"SSHRUN_PASSWORD=",
		"SSHPASS=",
		"PASSWORD=",
	}
)

// ValidateServerName validates a server configuration name
func ValidateServerName(name string) error {
	if name == "" {
		return fmt.Errorf("server name cannot be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("server name too long (max 64 characters)")
	}
	if !serverNameRegex.MatchString(name) {
		return fmt.Errorf("server name must contain only letters, numbers, underscores, and hyphens")
	}
	return nil
}

// ValidateUnixUser validates a Unix username
func ValidateUnixUser(user string) error {
	if user == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(user) > 32 {
		return fmt.Errorf("username too long (max 32 characters)")
	}
	if !unixUserRegex.MatchString(user) {
		return fmt.Errorf("username must start with a lowercase letter or underscore, followed by lowercase letters, numbers, underscores, or hyphens")
	}
	return nil
}

// ValidateHost validates a remote host: an IP address or a DNS name
func ValidateHost(host string) error {
	if host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if net.ParseIP(host) != nil {
		return nil
	}
	if len(host) > 253 {
		return fmt.Errorf("host too long (max 253 characters)")
	}
	for _, label := range strings.Split(strings.TrimSuffix(host, "."), ".") {
		if !hostnameLabelRegex.MatchString(label) {
			return fmt.Errorf("host %q is not a valid hostname or IP address", host)
		}
	}
	return nil
}

// ValidatePort validates a TCP port number. Zero means unset.
func ValidatePort(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("port %d out of range (1-65535)", port)
	}
	return nil
}

// ValidateCommand validates a remote command line
func ValidateCommand(command string) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("command cannot be empty")
	}
	if strings.ContainsRune(command, 0) {
		return fmt.Errorf("command cannot contain NUL bytes")
	}
	return nil
}

// ValidateSudoPassword rejects passwords that cannot be embedded in the
// double-quoted sudo wrapper without changing the remote command.
func ValidateSudoPassword(password string) error {
	if strings.ContainsAny(password, "\"\n\r`$\\") {
		return fmt.Errorf("sudo password cannot contain quotes, backslashes, backticks, dollar signs, or newlines")
	}
	return nil
}

// SanitizeCommandForLog masks sensitive values in commands before logging.
// This prevents secrets from leaking into verbose output or log files.
func SanitizeCommandForLog(cmd string) string {
	result := sudoPasswordRegex.ReplaceAllString(cmd, `echo "****" | sudo -S`)

	for _, pattern := range sensitiveLogPatterns {
		searchFrom := 0
		for {
			idx := strings.Index(result[searchFrom:], pattern)
			if idx == -1 {
				break
			}
			valueStart := searchFrom + idx + len(pattern)
			valueEnd := findValueEnd(result, valueStart)
			masked := "****"
			result = result[:valueStart] + masked + result[valueEnd:]
			// Advance past the replacement to avoid infinite loop
			searchFrom = valueStart + len(masked)
		}
	}

	return result
}

// findValueEnd finds where a shell value ends (handles quoted and unquoted values)
func findValueEnd(s string, start int) int {
	if start >= len(s) {
		return start
	}

	if s[start] == '\'' || s[start] == '"' {
		end := strings.IndexByte(s[start+1:], s[start])
		if end == -1 {
			return len(s)
		}
		return start + end + 2
	}

	for i := start; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' || s[i] == '\n' {
			return i
		}
	}
	return len(s)
}
