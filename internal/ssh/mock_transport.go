package ssh

import (
	"errors"
	"io"

	"golang.org/x/crypto/ssh"
)

// MockTransport is a scripted Transport test double. Set the *Err fields to
// make a step fail; Chunks is what the channel yields before ReadErr or EOF.
type MockTransport struct {
	HostKey  ssh.PublicKey
	Password string
	Chunks   []string
	ReadErr  error

	ConnectErr error
	KeyErr     error
	AuthErr    error
	ChannelErr error
	OpenErr    error
	ExecErr    error

	Connected        bool
	Authenticated    bool
	Freed            bool
	Calls            []string
	Commands         []string
	PasswordAttempts int
	ChannelCloses    int
	LastConfig       Config

	lastErr string
}

// Connect records cfg and fails with ConnectErr if set.
func (m *MockTransport) Connect(cfg Config) error {
	m.Calls = append(m.Calls, "connect")
	m.LastConfig = cfg
	if m.ConnectErr != nil {
		return m.fail(m.ConnectErr)
	}
	m.Connected = true
	return nil
}

// Disconnect drops the connection.
func (m *MockTransport) Disconnect() error {
	m.Calls = append(m.Calls, "disconnect")
	m.Connected = false
	m.Authenticated = false
	return nil
}

// LastError returns the text of the last scripted failure.
func (m *MockTransport) LastError() string {
	return m.lastErr
}

// ServerPublicKey returns HostKey.
func (m *MockTransport) ServerPublicKey() (ssh.PublicKey, error) {
	m.Calls = append(m.Calls, "server-key")
	if m.KeyErr != nil {
		return nil, m.fail(m.KeyErr)
	}
	if !m.Connected {
		return nil, m.fail(ErrNotConnected)
	}
	if m.HostKey == nil {
		return nil, m.fail(errNoServerKey)
	}
	return m.HostKey, nil
}

// AuthPassword accepts Password, or any password when Password is empty.
func (m *MockTransport) AuthPassword(password string) error {
	m.Calls = append(m.Calls, "auth")
	m.PasswordAttempts++
	if m.AuthErr != nil {
		return m.fail(m.AuthErr)
	}
	if m.Password != "" && password != m.Password {
		return m.fail(errors.New("permission denied"))
	}
	m.Authenticated = true
	return nil
}

// NewChannel returns a channel over Chunks.
func (m *MockTransport) NewChannel() (Channel, error) {
	m.Calls = append(m.Calls, "new-channel")
	if m.ChannelErr != nil {
		return nil, m.fail(m.ChannelErr)
	}
	if !m.Authenticated {
		return nil, m.fail(ErrNotConnected)
	}
	return &mockChannel{transport: m, chunks: append([]string(nil), m.Chunks...)}, nil
}

// Close frees the transport.
func (m *MockTransport) Close() error {
	m.Calls = append(m.Calls, "close")
	m.Connected = false
	m.Authenticated = false
	m.Freed = true
	return nil
}

func (m *MockTransport) fail(err error) error {
	m.lastErr = err.Error()
	return err
}

type mockChannel struct {
	transport *MockTransport
	chunks    []string
	closed    bool
}

func (c *mockChannel) OpenSession() error {
	c.transport.Calls = append(c.transport.Calls, "open-session")
	if c.transport.OpenErr != nil {
		return c.transport.fail(c.transport.OpenErr)
	}
	return nil
}

func (c *mockChannel) RequestExec(command string) error {
	c.transport.Calls = append(c.transport.Calls, "exec")
	c.transport.Commands = append(c.transport.Commands, command)
	if c.transport.ExecErr != nil {
		return c.transport.fail(c.transport.ExecErr)
	}
	return nil
}

func (c *mockChannel) Read(p []byte) (int, error) {
	if c.closed {
		return 0, io.ErrClosedPipe
	}
	if len(c.chunks) == 0 {
		if c.transport.ReadErr != nil {
			return 0, c.transport.fail(c.transport.ReadErr)
		}
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func (c *mockChannel) Close() error {
	c.transport.Calls = append(c.transport.Calls, "close-channel")
	c.transport.ChannelCloses++
	c.closed = true
	return nil
}
