package ssh

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"

	"golang.org/x/crypto/ssh"
)

var (
	errHostKeyRejected = errors.New("host key rejected")
	errNoServerKey     = errors.New("server did not present a host key")
	errNoPassword      = errors.New("no password supplied")
)

// NativeTransport is the Transport backed by golang.org/x/crypto/ssh.
//
// x/crypto/ssh runs key exchange and authentication in a single call, so the
// handshake runs on a goroutine that parks inside the host key callback.
// Connect returns once the server key is known; AuthPassword or Disconnect
// releases the callback and joins the goroutine.
type NativeTransport struct {
	dial func(network, address string, cfg Config) (net.Conn, error)

	mu      sync.Mutex
	conn    net.Conn
	client  *ssh.Client
	hostKey ssh.PublicKey
	lastErr error

	// Handshake rendezvous, non-nil only between Connect and AuthPassword/Disconnect.
	verdict  chan error
	password chan string
	done     chan handshakeResult
}

type handshakeResult struct {
	conn  ssh.Conn
	chans <-chan ssh.NewChannel
	reqs  <-chan *ssh.Request
	err   error
}

// NewNativeTransport returns a transport that dials TCP.
func NewNativeTransport() *NativeTransport {
	return &NativeTransport{dial: dialTCP}
}

func dialTCP(network, address string, cfg Config) (net.Conn, error) {
	d := net.Dialer{Timeout: cfg.Timeout}
	return d.Dial(network, address)
}

// Connect dials the server and runs the key exchange up to host key
// verification.
func (t *NativeTransport) Connect(cfg Config) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		return t.fail(fmt.Errorf("already connected"))
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	conn, err := t.dial("tcp", addr, cfg)
	if err != nil {
		return t.fail(fmt.Errorf("failed to connect to %s: %w", addr, err))
	}

	keys := make(chan ssh.PublicKey, 1)
	t.verdict = make(chan error, 1)
	t.password = make(chan string, 1)
	t.done = make(chan handshakeResult, 1)

	verdict, password := t.verdict, t.password
	var accepted ssh.PublicKey
	var methods []ssh.AuthMethod
	if cfg.PasswordAuth {
		methods = append(methods, ssh.PasswordCallback(func() (string, error) {
			pw, ok := <-password
			if !ok {
				return "", errNoPassword
			}
			return pw, nil
		}))
	}

	clientConfig := &ssh.ClientConfig{
		User: cfg.User,
		Auth: methods,
		HostKeyCallback: func(_ string, _ net.Addr, key ssh.PublicKey) error {
			// Re-keying calls back with the already accepted key.
			if accepted != nil {
				if bytes.Equal(accepted.Marshal(), key.Marshal()) {
					return nil
				}
				return errHostKeyRejected
			}
			keys <- key
			if err := <-verdict; err != nil {
				return err
			}
			accepted = key
			return nil
		},
		Timeout: cfg.Timeout,
	}

	done := t.done
	go func() {
		c, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
		done <- handshakeResult{conn: c, chans: chans, reqs: reqs, err: err}
	}()

	select {
	case key := <-keys:
		t.conn = conn
		t.hostKey = key
		t.lastErr = nil
		return nil
	case res := <-done:
		_ = conn.Close()
		t.resetHandshake()
		if res.err == nil {
			// The host key callback always runs before the handshake can finish.
			res.err = errNoServerKey
		}
		return t.fail(fmt.Errorf("ssh handshake with %s: %w", addr, res.err))
	}
}

// AuthPassword accepts the host key and authenticates with password.
func (t *NativeTransport) AuthPassword(password string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done == nil {
		if t.client != nil {
			return t.fail(fmt.Errorf("already authenticated"))
		}
		return t.fail(ErrNotConnected)
	}

	t.password <- password
	t.verdict <- nil
	res := <-t.done
	t.resetHandshake()

	if res.err != nil {
		return t.fail(res.err)
	}
	t.client = ssh.NewClient(res.conn, res.chans, res.reqs)
	return nil
}

// ServerPublicKey returns the host key seen during the last Connect.
func (t *NativeTransport) ServerPublicKey() (ssh.PublicKey, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil, t.fail(ErrNotConnected)
	}
	if t.hostKey == nil {
		return nil, t.fail(errNoServerKey)
	}
	return t.hostKey, nil
}

// NewChannel allocates a channel on the authenticated connection.
func (t *NativeTransport) NewChannel() (Channel, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client == nil {
		return nil, t.fail(ErrNotConnected)
	}
	return &nativeChannel{transport: t, client: t.client}, nil
}

// Disconnect tears down the connection. A handshake parked on the host key
// callback is rejected and joined first.
func (t *NativeTransport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var err error
	if t.done != nil {
		select {
		case t.verdict <- errHostKeyRejected:
		default:
		}
		close(t.password)
		err = t.conn.Close()
		<-t.done
		t.resetHandshake()
	} else if t.client != nil {
		err = t.client.Close()
	} else if t.conn != nil {
		err = t.conn.Close()
	}

	t.client = nil
	t.conn = nil
	t.hostKey = nil
	if err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// LastError returns the most recent failure text.
func (t *NativeTransport) LastError() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.lastErr == nil {
		return ""
	}
	return t.lastErr.Error()
}

// Close frees the transport.
func (t *NativeTransport) Close() error {
	return t.Disconnect()
}

func (t *NativeTransport) resetHandshake() {
	t.verdict = nil
	t.password = nil
	t.done = nil
}

func (t *NativeTransport) fail(err error) error {
	t.lastErr = err
	return err
}

func (t *NativeTransport) recordError(err error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fail(err)
}

// nativeChannel maps the channel primitives onto an ssh.Session.
type nativeChannel struct {
	transport *NativeTransport
	client    *ssh.Client
	session   *ssh.Session
	stdout    io.Reader
}

func (c *nativeChannel) OpenSession() error {
	session, err := c.client.NewSession()
	if err != nil {
		return c.transport.recordError(err)
	}
	c.session = session
	return nil
}

func (c *nativeChannel) RequestExec(command string) error {
	if c.session == nil {
		return c.transport.recordError(fmt.Errorf("channel session is not open"))
	}
	stdout, err := c.session.StdoutPipe()
	if err != nil {
		return c.transport.recordError(err)
	}
	if err := c.session.Start(command); err != nil {
		return c.transport.recordError(err)
	}
	c.stdout = stdout
	return nil
}

func (c *nativeChannel) Read(p []byte) (int, error) {
	if c.stdout == nil {
		return 0, io.EOF
	}
	n, err := c.stdout.Read(p)
	if err != nil && err != io.EOF {
		_ = c.transport.recordError(err)
	}
	return n, err
}

func (c *nativeChannel) Close() error {
	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	c.stdout = nil
	if err != nil && err != io.EOF {
		return err
	}
	return nil
}
