package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yoanbernabeu/sshrun/internal/config"
	"golang.org/x/term"
)

// IsInteractive returns true if stdin is a terminal
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// promptPassword reads a password from the terminal without echo
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

// passwordSource resolves the login password. Order: SSHRUN_PASSWORD,
// the first line of stdin with --password-stdin, then an interactive prompt.
type passwordSource struct {
	fromStdin   bool
	stdin       io.Reader
	interactive func() bool
	prompt      func(string) (string, error)
}

func defaultPasswordSource(fromStdin bool) passwordSource {
	return passwordSource{
		fromStdin:   fromStdin,
		stdin:       os.Stdin,
		interactive: IsInteractive,
		prompt:      promptPassword,
	}
}

func (p passwordSource) resolve(user, host string) (string, error) {
	if pw, ok := os.LookupEnv(config.EnvPassword); ok {
		return pw, nil
	}

	if p.fromStdin {
		line, err := bufio.NewReader(p.stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("failed to read password from stdin: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	if !p.interactive() {
		return "", fmt.Errorf("no password: set %s, use --password-stdin, or run in a terminal", config.EnvPassword)
	}
	return p.prompt(fmt.Sprintf("%s@%s's password: ", user, host))
}
