// Package ssh runs a single remote command over a password-authenticated SSH
// session.
//
// A Session walks one connection through connect, host key verification,
// password authentication and command execution. Host keys are checked
// against an OpenSSH known_hosts file with trust-on-first-use: a host seen
// for the first time is recorded and accepted, a host whose key has changed
// is always rejected with ErrHostKeyChanged.
//
// The protocol itself is delegated to golang.org/x/crypto/ssh through the
// Transport interface. All errors returned by a Session are *Error values and
// match the Err* sentinels with errors.Is.
package ssh
