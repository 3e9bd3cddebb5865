package ssh

import (
	"fmt"
	"io"

	"github.com/yoanbernabeu/sshrun/internal/security"
)

// ReadChunkSize is the size of the buffer used to read command output.
const ReadChunkSize = 256

// Sink receives remote command output, one chunk per call, in arrival order.
type Sink func(chunk string)

// WriterSink returns a Sink writing every chunk to w.
func WriterSink(w io.Writer) Sink {
	return func(chunk string) {
		_, _ = io.WriteString(w, chunk)
	}
}

// SudoCommand wraps command so it runs under sudo, feeding password on
// stdin. The password appears in the remote command line.
func SudoCommand(command, password string) string {
	return fmt.Sprintf("echo \"%s\" | sudo -S %s", password, command)
}

// Run executes command on an authenticated session and streams its output to
// the session's sink until end of stream. The exit status is not reported.
func (s *Session) Run(command string) error {
	if s.state == stateClosed {
		return ErrSessionClosed
	}
	if s.state != stateAuthenticated {
		return newError(KindChannelOpenFailed, "session is "+s.state.String(), ErrNotConnected)
	}

	s.logger.Debug("running command", "command", security.SanitizeCommandForLog(command))

	ch, err := s.transport.NewChannel()
	if err != nil {
		return newError(KindChannelOpenFailed, s.transport.LastError(), err)
	}
	defer func() {
		if err := ch.Close(); err != nil {
			s.logger.Debug("channel close failed", "error", err)
		}
	}()

	if err := ch.OpenSession(); err != nil {
		return newError(KindChannelOpenFailed, s.transport.LastError(), err)
	}
	if err := ch.RequestExec(command); err != nil {
		return newError(KindChannelExecFailed, s.transport.LastError(), err)
	}

	if err := streamChannel(ch, s.output); err != nil {
		return newError(KindChannelReadFailed, s.transport.LastError(), err)
	}
	return nil
}

// streamChannel copies r to sink in ReadChunkSize pieces. It stops at the
// first empty read or error; io.EOF is not an error.
func streamChannel(r io.Reader, sink Sink) error {
	buf := make([]byte, ReadChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			sink(string(buf[:n]))
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if n == 0 {
			return nil
		}
	}
}
