package ssh

import (
	"log/slog"
	"time"

	"github.com/yoanbernabeu/sshrun/internal/constants"
)

// DefaultPort is used when no port is set.
const DefaultPort = constants.DefaultSSHPort

type sessionState int

const (
	stateDisconnected sessionState = iota
	stateConnected
	stateAuthenticated
	stateClosed
)

func (s sessionState) String() string {
	switch s {
	case stateDisconnected:
		return "disconnected"
	case stateConnected:
		return "connected"
	case stateAuthenticated:
		return "authenticated"
	case stateClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// Session is one logical SSH connection: its options and its transport.
// A Session is owned by a single caller and must not be used concurrently.
type Session struct {
	host          string
	port          int
	user          string
	passwordAuth  *bool
	publicKeyAuth *bool

	transport      Transport
	trust          TrustStore
	hash           HashAlgorithm
	connectTimeout time.Duration
	logger         *slog.Logger
	output         Sink

	state sessionState
}

// Option configures a Session at creation.
type Option func(*Session)

// WithTransport replaces the default x/crypto/ssh transport.
func WithTransport(t Transport) Option {
	return func(s *Session) {
		s.transport = t
	}
}

// WithTrustStore sets the known hosts registry.
func WithTrustStore(store TrustStore) Option {
	return func(s *Session) {
		s.trust = store
	}
}

// WithKnownHostsFile uses the known_hosts file at path as the trust store.
func WithKnownHostsFile(path string) Option {
	return func(s *Session) {
		s.trust = NewKnownHostsFile(path)
	}
}

// WithHashAlgorithm sets the host key fingerprint digest.
func WithHashAlgorithm(alg HashAlgorithm) Option {
	return func(s *Session) {
		s.hash = alg
	}
}

// WithConnectTimeout bounds the TCP dial. Zero, the default, blocks.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.connectTimeout = d
	}
}

// WithLogger sets the diagnostic logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOutput sets the sink receiving remote command output.
func WithOutput(sink Sink) Option {
	return func(s *Session) {
		s.output = sink
	}
}

// New creates a Session. Without WithTransport it uses NativeTransport and
// without a trust store it uses ~/.ssh/known_hosts.
func New(opts ...Option) *Session {
	s := &Session{
		hash:   DefaultHashAlgorithm,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.transport == nil {
		s.transport = NewNativeTransport()
	}
	if s.trust == nil {
		path, err := DefaultKnownHostsPath()
		if err != nil {
			path = "known_hosts"
		}
		s.trust = NewKnownHostsFile(path)
	}
	if s.output == nil {
		s.output = s.logOutput
	}
	return s
}

// SetHost sets the remote host. An empty string unsets it.
func (s *Session) SetHost(host string) {
	s.host = host
	s.noteInert("host")
}

// Host returns the configured host.
func (s *Session) Host() (string, bool) {
	return s.host, s.host != ""
}

// SetPort sets the remote port. Zero unsets it.
func (s *Session) SetPort(port int) {
	s.port = port
	s.noteInert("port")
}

// Port returns the configured port.
func (s *Session) Port() (int, bool) {
	return s.port, s.port != 0
}

// SetUser sets the login name. An empty string unsets it.
func (s *Session) SetUser(user string) {
	s.user = user
	s.noteInert("user")
}

// User returns the configured login name.
func (s *Session) User() (string, bool) {
	return s.user, s.user != ""
}

// SetPasswordAuth enables or disables password authentication.
func (s *Session) SetPasswordAuth(enabled bool) {
	s.passwordAuth = &enabled
	s.noteInert("password-auth")
}

// ClearPasswordAuth unsets the password authentication flag.
func (s *Session) ClearPasswordAuth() {
	s.passwordAuth = nil
}

// PasswordAuth returns the password authentication flag.
func (s *Session) PasswordAuth() (bool, bool) {
	if s.passwordAuth == nil {
		return false, false
	}
	return *s.passwordAuth, true
}

// SetPublicKeyAuth enables or disables public key authentication. The flag
// is carried to the transport; only password authentication is performed.
func (s *Session) SetPublicKeyAuth(enabled bool) {
	s.publicKeyAuth = &enabled
	s.noteInert("pubkey-auth")
}

// ClearPublicKeyAuth unsets the public key authentication flag.
func (s *Session) ClearPublicKeyAuth() {
	s.publicKeyAuth = nil
}

// PublicKeyAuth returns the public key authentication flag.
func (s *Session) PublicKeyAuth() (bool, bool) {
	if s.publicKeyAuth == nil {
		return false, false
	}
	return *s.publicKeyAuth, true
}

// LastError returns the transport's last diagnostic text.
func (s *Session) LastError() string {
	if s.state == stateClosed {
		return ""
	}
	return s.transport.LastError()
}

// Execute connects, authenticates with password and runs command, streaming
// its output to the session's sink. With sudo the command is run through
// SudoCommand. Any failure after the connection is up disconnects before
// returning. On success the session stays connected and authenticated.
func (s *Session) Execute(command, password string, sudo bool) error {
	if err := s.Connect(); err != nil {
		return err
	}

	if err := s.Authenticate(password); err != nil {
		s.disconnectAfter(err)
		return err
	}

	if sudo {
		command = SudoCommand(command, password)
	}
	if err := s.Run(command); err != nil {
		s.disconnectAfter(err)
		return err
	}
	return nil
}

// Connect opens the transport connection and runs the key exchange.
func (s *Session) Connect() error {
	if s.state == stateClosed {
		return ErrSessionClosed
	}
	if s.state != stateDisconnected {
		return newError(KindConnectionFailed, "session is already "+s.state.String(), nil)
	}

	cfg := s.config()
	s.logger.Debug("connecting", "host", cfg.Host, "port", cfg.Port, "user", cfg.User)
	if err := s.transport.Connect(cfg); err != nil {
		return newError(KindConnectionFailed, s.transport.LastError(), err)
	}
	s.state = stateConnected
	return nil
}

// Disconnect closes the transport connection. The Session can connect again.
func (s *Session) Disconnect() error {
	if s.state == stateClosed {
		return ErrSessionClosed
	}
	s.state = stateDisconnected
	return s.transport.Disconnect()
}

// Close disconnects and frees the transport. Calling Close again is a no-op.
func (s *Session) Close() error {
	if s.state == stateClosed {
		return nil
	}
	s.state = stateClosed
	return s.transport.Close()
}

func (s *Session) disconnectAfter(cause error) {
	if err := s.Disconnect(); err != nil {
		s.logger.Debug("disconnect failed", "error", err, "cause", cause)
	}
}

// config snapshots the options for Connect. Options changed later do not
// affect the live connection.
func (s *Session) config() Config {
	cfg := Config{
		Host:         s.host,
		Port:         s.port,
		User:         s.user,
		PasswordAuth: true,
		Timeout:      s.connectTimeout,
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if s.passwordAuth != nil {
		cfg.PasswordAuth = *s.passwordAuth
	}
	if s.publicKeyAuth != nil {
		cfg.PublicKeyAuth = *s.publicKeyAuth
	}
	return cfg
}

func (s *Session) noteInert(option string) {
	if s.state == stateConnected || s.state == stateAuthenticated {
		s.logger.Debug("option changed on a live connection; it applies from the next connect", "option", option)
	}
}

func (s *Session) logOutput(chunk string) {
	s.logger.Debug("remote output", "chunk", chunk)
}
