package ssh

import (
	"io"
	"time"

	"golang.org/x/crypto/ssh"
)

// Config is the connection configuration a Session hands to its transport on
// Connect.
type Config struct {
	Host          string
	Port          int
	User          string
	PasswordAuth  bool
	PublicKeyAuth bool
	// Timeout bounds the TCP dial. Zero blocks indefinitely.
	Timeout time.Duration
}

// Transport is the SSH protocol engine a Session drives. Connect performs the
// key exchange and stops before authentication so the host key can be
// verified first.
//
// Close frees the transport. It is called exactly once by the owning Session.
type Transport interface {
	Connect(cfg Config) error
	Disconnect() error
	// LastError returns the text of the most recent transport failure.
	LastError() string
	ServerPublicKey() (ssh.PublicKey, error)
	AuthPassword(password string) error
	NewChannel() (Channel, error)
	io.Closer
}

// Channel is a single command-execution stream on an authenticated transport.
type Channel interface {
	OpenSession() error
	RequestExec(command string) error
	io.Reader
	io.Closer
}

// HostStatus is the trust store's verdict for a (host, port, key) triple.
type HostStatus int

const (
	// HostError means the trust store could not be read.
	HostError HostStatus = iota
	// HostKnown means a stored key matches.
	HostKnown
	// HostUnknown means the store has no entry for the host.
	HostUnknown
	// HostNotFound means the store itself does not exist yet.
	HostNotFound
	// HostChanged means the host has stored keys of the same type and none match.
	HostChanged
	// HostRevoked means the key is marked @revoked.
	HostRevoked
	// HostOther means the host is known only under other key types.
	HostOther
)

func (s HostStatus) String() string {
	switch s {
	case HostError:
		return "error"
	case HostKnown:
		return "known"
	case HostUnknown:
		return "unknown"
	case HostNotFound:
		return "not-found"
	case HostChanged:
		return "changed"
	case HostRevoked:
		return "revoked"
	case HostOther:
		return "other"
	default:
		return "invalid"
	}
}

// TrustStore is the persistent known-hosts registry.
type TrustStore interface {
	Lookup(host string, port int, key ssh.PublicKey) (HostStatus, error)
	Add(host string, port int, key ssh.PublicKey) error
}
