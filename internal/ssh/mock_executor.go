package ssh

// MockExecutor is a test double that records commands and returns configured results.
type MockExecutor struct {
	ExecuteFunc func(command, password string, sudo bool) error
	Commands    []string
	Closed      bool
}

// Execute records the command as it would be submitted and delegates to ExecuteFunc.
func (m *MockExecutor) Execute(command, password string, sudo bool) error {
	submitted := command
	if sudo {
		submitted = SudoCommand(command, password)
	}
	m.Commands = append(m.Commands, submitted)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(command, password, sudo)
	}
	return nil
}

// Close marks the mock closed.
func (m *MockExecutor) Close() error {
	m.Closed = true
	return nil
}
