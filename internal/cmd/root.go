package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/sshrun/internal/security"
)

var (
	// Version is set at build time
	Version = "dev"

	// Global flags
	verbose bool
	cfgFile string
	logFile string

	logger      = slog.New(slog.DiscardHandler)
	closeLogger = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "sshrun",
	Short: "Run commands on remote servers over SSH",
	Long: `sshrun runs a single command on a remote server over a
password-authenticated SSH session and streams its output.

Host keys are checked against your known_hosts file: a server seen for the
first time is recorded, a server whose key has changed is refused.

Quick start:
  sshrun server add prod deploy@my-vps.com   # Register a server
  sshrun trust prod                          # Check and record its host key
  sshrun exec prod uptime                    # Run a command
  sshrun exec --sudo prod apt-get update     # Run it through sudo

Environment Variables:
  SSHRUN_PASSWORD     Login password (skips the prompt)
  SSHRUN_KNOWN_HOSTS  known_hosts file to use`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, closeFn, err := newLogger(os.Stderr, verbose, logFile)
		if err != nil {
			return err
		}
		logger, closeLogger = l, closeFn
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		PrintError("%v", err)
	}
	if closeErr := closeLogger(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// GetRootCmd returns the root command, used by the docs generator
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed logs")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: $XDG_CONFIG_HOME/sshrun/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON debug logs to this file")

	rootCmd.SetVersionTemplate(`sshrun {{.Version}}
`)
}

// IsVerbose returns true if verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// PrintError prints a formatted error message
func PrintError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "❌ "+msg+"\n", args...)
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "✅ "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ℹ️  "+msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "⚠️  "+msg+"\n", args...)
}

// PrintVerbose prints a message only in verbose mode
func PrintVerbose(msg string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "   "+msg+"\n", args...)
	}
}

// PrintVerboseCommand prints a command in verbose mode with sensitive values masked
func PrintVerboseCommand(command string) {
	if verbose {
		fmt.Fprintf(os.Stderr, "   Running: %s\n", security.SanitizeCommandForLog(command))
	}
}
