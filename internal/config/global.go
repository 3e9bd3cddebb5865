package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/yoanbernabeu/sshrun/internal/constants"
	"gopkg.in/yaml.v3"
)

const (
	// EnvKnownHosts overrides the known_hosts path
	EnvKnownHosts = constants.EnvKnownHosts
	// EnvPassword supplies the login password for non-interactive use
	EnvPassword = constants.EnvPassword
)

// GetGlobalConfigPath returns the path to the global config file
func GetGlobalConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return constants.ConfigFilePath(configDir), nil
}

// LoadGlobalConfig loads the global configuration from path, or from the
// default location when path is empty. A missing file yields the defaults.
// Environment overrides are applied last.
func LoadGlobalConfig(path string) (*GlobalConfig, error) {
	if path == "" {
		var err error
		path, err = GetGlobalConfigPath()
		if err != nil {
			return nil, err
		}
	}

	config := DefaultGlobalConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read global config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse global config: %w", err)
	}

	if config.Servers == nil {
		config.Servers = make(map[string]ServerConfig)
	}
	if config.DefaultPort == 0 {
		config.DefaultPort = constants.DefaultSSHPort
	}
	if v := os.Getenv(EnvKnownHosts); v != "" {
		config.KnownHosts = v
	}

	if errs := ValidateGlobalConfig(config); errs.HasErrors() {
		return nil, fmt.Errorf("invalid global config %s: %w", path, errs)
	}

	return config, nil
}

// SaveGlobalConfig saves the global configuration to path, or to the default
// location when path is empty.
func SaveGlobalConfig(path string, config *GlobalConfig) error {
	if path == "" {
		var err error
		path, err = GetGlobalConfigPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	// SECURITY: Use 0700 to restrict directory access to owner only
	if err := os.MkdirAll(dir, constants.ConfigDirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// SECURITY: Use 0600 to restrict file access to owner only
	if err := os.WriteFile(path, data, constants.ConfigFileMode); err != nil {
		return fmt.Errorf("failed to write global config: %w", err)
	}

	return nil
}

// GetServer retrieves a server configuration by name, with the user and port
// defaults filled in
func (c *GlobalConfig) GetServer(name string) (*ServerConfig, error) {
	server, ok := c.Servers[name]
	if !ok {
		return nil, fmt.Errorf("server '%s' not found", name)
	}
	if server.User == "" {
		server.User = c.DefaultUser
	}
	if server.Port == 0 {
		server.Port = c.DefaultPort
	}
	return &server, nil
}

// AddServer adds a new server to the configuration
func (c *GlobalConfig) AddServer(name string, server ServerConfig) error {
	if _, exists := c.Servers[name]; exists {
		return fmt.Errorf("server '%s' already exists", name)
	}

	if server.Port == 0 {
		server.Port = c.DefaultPort
		if server.Port == 0 {
			server.Port = constants.DefaultSSHPort
		}
	}

	if errs := ValidateServerConfig(name, &server); errs.HasErrors() {
		return errs
	}

	c.Servers[name] = server
	return nil
}

// RemoveServer removes a server from the configuration
func (c *GlobalConfig) RemoveServer(name string) error {
	if _, exists := c.Servers[name]; !exists {
		return fmt.Errorf("server '%s' not found", name)
	}

	delete(c.Servers, name)
	return nil
}

// ListServers returns all server names, sorted
func (c *GlobalConfig) ListServers() []string {
	names := make([]string, 0, len(c.Servers))
	for name := range c.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
