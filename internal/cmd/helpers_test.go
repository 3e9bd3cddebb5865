package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/yoanbernabeu/sshrun/internal/config"
)

// unsetEnv removes key for the duration of the test
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatal(err)
	}
}

// tempConfig points the CLI at a fresh config file
func tempConfig(t *testing.T) string {
	t.Helper()
	unsetEnv(t, config.EnvKnownHosts)
	path := filepath.Join(t.TempDir(), "sshrun", "config.yaml")
	t.Cleanup(func() { cfgFile = "" })
	return path
}

// runCLI runs the root command with args and returns its stdout
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	serverPort = 0
	serverNoPasswd = false
	execSudo = false
	execPasswordStdin = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}
