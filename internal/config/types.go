package config

import (
	"time"

	"github.com/yoanbernabeu/sshrun/internal/constants"
)

// GlobalConfig represents the global ~/.config/sshrun/config.yaml
type GlobalConfig struct {
	Servers        map[string]ServerConfig `yaml:"servers"`
	KnownHosts     string                  `yaml:"known_hosts,omitempty"`
	HashAlgorithm  string                  `yaml:"hash_algorithm,omitempty"`
	HashKnownHosts bool                    `yaml:"hash_known_hosts,omitempty"`
	// ConnectTimeout in seconds; 0 waits for the operating system
	ConnectTimeout int    `yaml:"connect_timeout,omitempty"`
	DefaultUser    string `yaml:"default_user,omitempty"`
	DefaultPort    int    `yaml:"default_port,omitempty"`
}

// ServerConfig represents a configured server
type ServerConfig struct {
	Host string `yaml:"host"`
	User string `yaml:"user,omitempty"`
	Port int    `yaml:"port,omitempty"`
	// PasswordAuth defaults to true when unset
	PasswordAuth *bool `yaml:"password_auth,omitempty"`
	PubkeyAuth   *bool `yaml:"pubkey_auth,omitempty"`
}

// Timeout returns ConnectTimeout as a duration.
func (c *GlobalConfig) Timeout() time.Duration {
	return time.Duration(c.ConnectTimeout) * time.Second
}

// DefaultGlobalConfig returns a default global configuration
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		Servers:       make(map[string]ServerConfig),
		KnownHosts:    constants.DefaultKnownHosts,
		HashAlgorithm: constants.DefaultHashAlgorithm,
		DefaultPort:   constants.DefaultSSHPort,
	}
}
