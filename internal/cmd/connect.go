package cmd

import (
	"fmt"
	"log/slog"

	"github.com/yoanbernabeu/sshrun/internal/config"
	"github.com/yoanbernabeu/sshrun/internal/security"
	"github.com/yoanbernabeu/sshrun/internal/ssh"
)

// ServerTarget is a resolved server: its config entry plus the global
// settings that apply to it.
type ServerTarget struct {
	Name   string
	Server *config.ServerConfig
	Global *config.GlobalConfig
}

// ResolveServer validates the server name, loads the global config and
// looks the server up.
func ResolveServer(serverName string) (*ServerTarget, error) {
	if err := security.ValidateServerName(serverName); err != nil {
		return nil, fmt.Errorf("invalid server name: %w", err)
	}

	globalCfg, err := config.LoadGlobalConfig(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load global config: %w", err)
	}

	serverCfg, err := globalCfg.GetServer(serverName)
	if err != nil {
		return nil, err
	}

	return &ServerTarget{Name: serverName, Server: serverCfg, Global: globalCfg}, nil
}

// NewSession builds an unconnected session for the target. The caller must
// Close it.
func (t *ServerTarget) NewSession(logger *slog.Logger, opts ...ssh.Option) (*ssh.Session, error) {
	hash, err := ssh.ParseHashAlgorithm(t.Global.HashAlgorithm)
	if err != nil {
		return nil, err
	}

	path := t.Global.KnownHosts
	if path == "" {
		if path, err = ssh.DefaultKnownHostsPath(); err != nil {
			return nil, err
		}
	}
	knownHosts := ssh.NewKnownHostsFile(path)
	knownHosts.HashHosts = t.Global.HashKnownHosts
	logger.Debug("using known hosts file", "path", knownHosts.Path(), "hash_algorithm", hash)

	allOpts := []ssh.Option{
		ssh.WithTrustStore(knownHosts),
		ssh.WithHashAlgorithm(hash),
		ssh.WithConnectTimeout(t.Global.Timeout()),
		ssh.WithLogger(logger.With("server", t.Name)),
	}
	allOpts = append(allOpts, opts...)

	session := ssh.New(allOpts...)
	session.SetHost(t.Server.Host)
	session.SetPort(t.Server.Port)
	session.SetUser(t.Server.User)
	if t.Server.PasswordAuth != nil {
		session.SetPasswordAuth(*t.Server.PasswordAuth)
	}
	if t.Server.PubkeyAuth != nil {
		session.SetPublicKeyAuth(*t.Server.PubkeyAuth)
	}
	return session, nil
}
