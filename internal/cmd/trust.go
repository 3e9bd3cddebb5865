package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/sshrun/internal/ssh"
)

var trustCmd = &cobra.Command{
	Use:   "trust <server>",
	Short: "Check a server's host key against known_hosts",
	Long: `Connects to the server and verifies its host key without logging in.

A server seen for the first time is recorded in known_hosts. A server whose
key no longer matches the recorded one is refused.

Example:
  sshrun trust production`,
	Args: cobra.ExactArgs(1),
	RunE: runTrust,
}

func init() {
	rootCmd.AddCommand(trustCmd)
}

func runTrust(cmd *cobra.Command, args []string) error {
	target, err := ResolveServer(args[0])
	if err != nil {
		return err
	}

	session, err := target.NewSession(logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Debug("failed to close session", "error", err)
		}
	}()

	return verifyHost(cmd.OutOrStdout(), session, target.Name)
}

// hostVerifier is the part of a session used by the trust command
type hostVerifier interface {
	Connect() error
	VerifyHost() (ssh.Verification, error)
	Disconnect() error
}

func verifyHost(w io.Writer, session hostVerifier, name string) error {
	if err := session.Connect(); err != nil {
		return err
	}
	defer func() {
		if err := session.Disconnect(); err != nil {
			logger.Debug("disconnect failed", "error", err)
		}
	}()

	v, err := session.VerifyHost()
	printVerification(w, name, v)
	if err != nil {
		return describeError(err)
	}

	switch v.Status {
	case ssh.HostUnknown, ssh.HostNotFound:
		PrintSuccess("Host key for '%s' added to known_hosts", name)
	default:
		PrintSuccess("Host key for '%s' matches known_hosts", name)
	}
	return nil
}

func printVerification(w io.Writer, name string, v ssh.Verification) {
	if v.Fingerprint.Sum != nil {
		fmt.Fprintf(w, "%s %s\n", name, v.Fingerprint)
	}
	if IsVerbose() {
		states := make([]string, len(v.Path))
		for i, s := range v.Path {
			states[i] = s.String()
		}
		PrintVerbose("Known hosts status: %s", v.Status)
		PrintVerbose("Verification: %s", strings.Join(states, " -> "))
	}
}
