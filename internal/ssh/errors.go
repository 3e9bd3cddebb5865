package ssh

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a session failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConnectionFailed
	KindKeyRetrievalFailed
	KindHashComputationFailed
	KindHostKeyChanged
	KindTrustStoreError
	KindAuthenticationFailed
	KindChannelOpenFailed
	KindChannelExecFailed
	KindChannelReadFailed
	KindUnknownTrustState
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnectionFailed:
		return "connection failed"
	case KindKeyRetrievalFailed:
		return "server public key retrieval failed"
	case KindHashComputationFailed:
		return "public key hash computation failed"
	case KindHostKeyChanged:
		return "host key changed"
	case KindTrustStoreError:
		return "known hosts error"
	case KindAuthenticationFailed:
		return "authentication failed"
	case KindChannelOpenFailed:
		return "channel open failed"
	case KindChannelExecFailed:
		return "channel exec failed"
	case KindChannelReadFailed:
		return "channel read failed"
	case KindUnknownTrustState:
		return "unknown host trust state"
	default:
		return "unknown error"
	}
}

// Sentinel errors, one per kind. Match them with errors.Is.
var (
	ErrConnectionFailed      = &Error{Kind: KindConnectionFailed}
	ErrKeyRetrievalFailed    = &Error{Kind: KindKeyRetrievalFailed}
	ErrHashComputationFailed = &Error{Kind: KindHashComputationFailed}
	ErrHostKeyChanged        = &Error{Kind: KindHostKeyChanged}
	ErrTrustStore            = &Error{Kind: KindTrustStoreError}
	ErrAuthenticationFailed  = &Error{Kind: KindAuthenticationFailed}
	ErrChannelOpenFailed     = &Error{Kind: KindChannelOpenFailed}
	ErrChannelExecFailed     = &Error{Kind: KindChannelExecFailed}
	ErrChannelReadFailed     = &Error{Kind: KindChannelReadFailed}
	ErrUnknownTrustState     = &Error{Kind: KindUnknownTrustState}
)

var (
	// ErrSessionClosed is returned by any operation on a closed Session.
	ErrSessionClosed = errors.New("ssh: session is closed")
	// ErrNotConnected is returned by transport operations that need a live connection.
	ErrNotConnected = errors.New("ssh: not connected")
)

// Error is a typed session failure. Message carries the transport's last
// diagnostic text when one is available.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := "ssh: " + e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil && e.Err.Error() != e.Message {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is an *Error of the same kind. A target with a
// message only matches errors carrying the same message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// KindOf returns the ErrorKind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) ErrorKind {
	var sshErr *Error
	if errors.As(err, &sshErr) {
		return sshErr.Kind
	}
	return KindUnknown
}

func newError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}
