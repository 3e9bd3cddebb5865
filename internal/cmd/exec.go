package cmd

import (
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/sshrun/internal/security"
	"github.com/yoanbernabeu/sshrun/internal/ssh"
)

var execCmd = &cobra.Command{
	Use:   "exec <server> <command> [args...]",
	Short: "Execute a command on a server",
	Long: `Connects to the server, verifies its host key, authenticates with a
password and runs the command. Output is streamed to stdout.

Flags go before the server name; everything after it is the remote command.
A single command argument is sent as-is, so shell syntax works when quoted.
Several arguments are quoted and joined.

Example:
  sshrun exec production uptime
  sshrun exec production 'ps aux | grep nginx'
  sshrun exec --sudo production systemctl restart nginx
  echo "$PASS" | sshrun exec --password-stdin production df -h`,
	Args: cobra.MinimumNArgs(2),
	RunE: runExec,
}

var (
	execSudo          bool
	execPasswordStdin bool
)

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().BoolVar(&execSudo, "sudo", false, "Run the command through sudo, feeding it the login password")
	execCmd.Flags().BoolVar(&execPasswordStdin, "password-stdin", false, "Read the password from the first line of stdin")
	// Flags after the command belong to the remote command
	execCmd.Flags().SetInterspersed(false)
}

func runExec(cmd *cobra.Command, args []string) error {
	command := buildCommand(args[1:])
	if err := security.ValidateCommand(command); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	target, err := ResolveServer(args[0])
	if err != nil {
		return err
	}
	if target.Server.User == "" {
		return fmt.Errorf("server '%s' has no user: use user@host or set default_user", target.Name)
	}

	password, err := defaultPasswordSource(execPasswordStdin).resolve(target.Server.User, target.Server.Host)
	if err != nil {
		return err
	}

	session, err := target.NewSession(logger, ssh.WithOutput(ssh.WriterSink(cmd.OutOrStdout())))
	if err != nil {
		return err
	}

	PrintVerbose("Connecting to %s@%s:%d", target.Server.User, target.Server.Host, target.Server.Port)
	return executeRemote(session, command, password, execSudo)
}

// executeRemote runs command and releases the executor
func executeRemote(executor ssh.Executor, command, password string, sudo bool) error {
	defer func() {
		if err := executor.Close(); err != nil {
			logger.Debug("failed to close session", "error", err)
		}
	}()

	if sudo {
		if err := security.ValidateSudoPassword(password); err != nil {
			return err
		}
		PrintVerboseCommand(ssh.SudoCommand(command, password))
	} else {
		PrintVerboseCommand(command)
	}

	if err := executor.Execute(command, password, sudo); err != nil {
		return describeError(err)
	}
	return nil
}

// buildCommand turns the command arguments into one remote command line
func buildCommand(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return shellquote.Join(args...)
}

// describeError adds a hint for the failures a user can act on
func describeError(err error) error {
	switch ssh.KindOf(err) {
	case ssh.KindHostKeyChanged:
		return fmt.Errorf("%w\nIf the server was reinstalled, remove its old entry from known_hosts", err)
	case ssh.KindAuthenticationFailed:
		return fmt.Errorf("%w\nCheck the password and the server's user", err)
	default:
		return err
	}
}
