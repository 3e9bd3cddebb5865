package ssh

// Executor abstracts remote command execution for testability.
type Executor interface {
	Execute(command, password string, sudo bool) error
	Close() error
}

var _ Executor = (*Session)(nil)
