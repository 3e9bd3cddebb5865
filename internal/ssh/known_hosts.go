package ssh

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// KnownHostsFile is a TrustStore backed by an OpenSSH known_hosts file.
//
// The file is re-read on every Lookup. There is no locking between
// processes writing the same file.
type KnownHostsFile struct {
	path string
	// HashHosts writes new entries with hashed host names (|1|salt|hash).
	HashHosts bool
}

// NewKnownHostsFile returns a store for path. A leading "~/" is expanded.
func NewKnownHostsFile(path string) *KnownHostsFile {
	return &KnownHostsFile{path: expandHome(path)}
}

// DefaultKnownHostsPath returns ~/.ssh/known_hosts.
func DefaultKnownHostsPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ssh", "known_hosts"), nil
}

// Path returns the backing file path.
func (f *KnownHostsFile) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Lookup reports what the file says about key for host:port.
func (f *KnownHostsFile) Lookup(host string, port int, key ssh.PublicKey) (HostStatus, error) {
	if f == nil {
		return HostError, fmt.Errorf("known_hosts store is nil")
	}
	if _, err := os.Stat(f.path); err != nil {
		if os.IsNotExist(err) {
			return HostNotFound, nil
		}
		return HostError, fmt.Errorf("check host: stat known_hosts file: %w", err)
	}

	callback, err := knownhosts.New(f.path)
	if err != nil {
		return HostError, fmt.Errorf("check host: read known_hosts file: %w", err)
	}

	address := net.JoinHostPort(host, strconv.Itoa(port))
	err = callback(address, remoteAddr(host, port), key)
	if err == nil {
		return HostKnown, nil
	}

	var revoked *knownhosts.RevokedError
	if errors.As(err, &revoked) {
		return HostRevoked, nil
	}

	var keyErr *knownhosts.KeyError
	if errors.As(err, &keyErr) {
		if len(keyErr.Want) == 0 {
			return HostUnknown, nil
		}
		for _, want := range keyErr.Want {
			if want.Key.Type() == key.Type() {
				return HostChanged, nil
			}
		}
		return HostOther, nil
	}

	return HostError, fmt.Errorf("check host: %w", err)
}

// Add appends an entry for host:port. The containing directory is created
// with 0700 and the file with 0600.
func (f *KnownHostsFile) Add(host string, port int, key ssh.PublicKey) error {
	if f == nil {
		return fmt.Errorf("known_hosts store is nil")
	}
	if strings.TrimSpace(host) == "" || key == nil {
		return fmt.Errorf("host and key are required")
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("trust host: create known_hosts dir: %w", err)
	}

	hostEntry := knownhosts.Normalize(net.JoinHostPort(host, strconv.Itoa(port)))
	if f.HashHosts {
		hostEntry = knownhosts.HashHostname(hostEntry)
	}
	line := knownhosts.Line([]string{hostEntry}, key)

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("trust host: open known_hosts file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("trust host: write entry: %w", err)
	}
	return nil
}

// remoteAddr builds the net.Addr knownhosts needs. For a host name the IP is
// left empty, so only the name is matched.
func remoteAddr(host string, port int) net.Addr {
	return &net.TCPAddr{IP: net.ParseIP(host), Port: port}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
