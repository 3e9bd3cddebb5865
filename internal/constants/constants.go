package constants

import "path/filepath"

// Connection defaults
const (
	DefaultSSHPort       = 22
	DefaultKnownHosts    = "~/.ssh/known_hosts"
	DefaultHashAlgorithm = "sha1"
)

// Local configuration layout
const (
	ConfigDirName  = "sshrun"
	ConfigFileName = "config.yaml"
	// Directories holding credentials are owner-only
	ConfigDirMode  = 0700
	ConfigFileMode = 0600
)

// Environment variables
const (
	EnvPassword   = "SSHRUN_PASSWORD"
	EnvKnownHosts = "SSHRUN_KNOWN_HOSTS"
)

// ConfigFilePath returns the config file path under a user config directory.
func ConfigFilePath(userConfigDir string) string {
	return filepath.Join(userConfigDir, ConfigDirName, ConfigFileName)
}
