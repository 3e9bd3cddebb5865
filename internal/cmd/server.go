package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yoanbernabeu/sshrun/internal/config"
	"github.com/yoanbernabeu/sshrun/internal/security"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Manage servers",
	Long:  `Commands to add, list, and remove servers.`,
}

var serverAddCmd = &cobra.Command{
	Use:   "add <name> <[user@]host>",
	Short: "Add a new server",
	Long: `Adds a new server to the global configuration.

Without a user, the configured default_user is used at connect time.

Example:
  sshrun server add production deploy@my-vps.com
  sshrun server add staging admin@staging.example.com --port 2222`,
	Args: cobra.ExactArgs(2),
	RunE: runServerAdd,
}

var serverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured servers",
	RunE:  runServerList,
}

var serverRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a server",
	Args:  cobra.ExactArgs(1),
	RunE:  runServerRemove,
}

var (
	serverPort     int
	serverNoPasswd bool
)

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.AddCommand(serverAddCmd)
	serverCmd.AddCommand(serverListCmd)
	serverCmd.AddCommand(serverRemoveCmd)

	serverAddCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "SSH port (default: default_port)")
	serverAddCmd.Flags().BoolVar(&serverNoPasswd, "no-password-auth", false, "Disable password authentication for this server")
}

// parseHostSpec splits [user@]host
func parseHostSpec(spec string) (user, host string, err error) {
	host = spec
	if i := strings.LastIndex(spec, "@"); i >= 0 {
		user, host = spec[:i], spec[i+1:]
		if user == "" {
			return "", "", fmt.Errorf("invalid host format, use user@host")
		}
	}
	if host == "" {
		return "", "", fmt.Errorf("invalid host format, use user@host")
	}
	return user, host, nil
}

func runServerAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Validate server name
	if err := security.ValidateServerName(name); err != nil {
		return fmt.Errorf("invalid server name: %w", err)
	}

	user, host, err := parseHostSpec(args[1])
	if err != nil {
		return err
	}

	globalCfg, err := config.LoadGlobalConfig(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load global config: %w", err)
	}

	serverCfg := config.ServerConfig{
		Host: host,
		User: user,
		Port: serverPort,
	}
	if serverNoPasswd {
		disabled := false
		serverCfg.PasswordAuth = &disabled
	}

	if err := globalCfg.AddServer(name, serverCfg); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}

	if err := config.SaveGlobalConfig(GetConfigFile(), globalCfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	added := globalCfg.Servers[name]
	PrintSuccess("Added server '%s' (%s)", name, formatAddress(&added))
	fmt.Fprintln(cmd.ErrOrStderr())
	fmt.Fprintln(cmd.ErrOrStderr(), "Next step:")
	fmt.Fprintf(cmd.ErrOrStderr(), "  Run 'sshrun trust %s' to check and record its host key\n", name)
	return nil
}

func runServerList(cmd *cobra.Command, args []string) error {
	globalCfg, err := config.LoadGlobalConfig(GetConfigFile())
	if err != nil {
		return err
	}

	printServers(cmd.OutOrStdout(), globalCfg)
	return nil
}

func printServers(w io.Writer, globalCfg *config.GlobalConfig) {
	servers := globalCfg.ListServers()
	if len(servers) == 0 {
		fmt.Fprintln(w, "No servers configured")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Add a server with:")
		fmt.Fprintln(w, "  sshrun server add <name> <user@host>")
		return
	}

	fmt.Fprintln(w, "Configured servers:")
	fmt.Fprintln(w)
	for _, name := range servers {
		server, _ := globalCfg.GetServer(name)
		fmt.Fprintf(w, "  %s\n", name)
		fmt.Fprintf(w, "    Host: %s\n", formatAddress(server))
		if server.PasswordAuth != nil && !*server.PasswordAuth {
			fmt.Fprintf(w, "    Password auth: disabled\n")
		}
		fmt.Fprintln(w)
	}
}

func formatAddress(server *config.ServerConfig) string {
	if server.User == "" {
		return fmt.Sprintf("%s:%d", server.Host, server.Port)
	}
	return fmt.Sprintf("%s@%s:%d", server.User, server.Host, server.Port)
}

func runServerRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Validate server name
	if err := security.ValidateServerName(name); err != nil {
		return fmt.Errorf("invalid server name: %w", err)
	}

	globalCfg, err := config.LoadGlobalConfig(GetConfigFile())
	if err != nil {
		return err
	}

	if err := globalCfg.RemoveServer(name); err != nil {
		return err
	}

	if err := config.SaveGlobalConfig(GetConfigFile(), globalCfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	PrintSuccess("Removed server '%s'", name)
	return nil
}
