// Package commands implements the CLI commands for saslgate management.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	configcmd "github.com/marmos91/saslgate/cmd/saslgate/commands/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "saslgate",
	Short: "saslgate - SASL negotiation server tooling",
	Long: `saslgate negotiates SASL authentication sessions for RPC transports:
it maps declared authentication methods (SIMPLE, KERBEROS, TOKEN, PLAIN)
to SASL mechanisms and answers mechanism credential callbacks against
token secrets and the server's Kerberos identity.

This CLI inspects and manages the negotiation configuration, mints and
decodes token identifiers, and examines service keytabs.

Use "saslgate [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/saslgate/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(methodsCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(keytabCmd)
	rootCmd.AddCommand(configcmd.Cmd)
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}

// PrintErr prints an error message to stderr.
func PrintErr(format string, args ...any) {
	rootCmd.PrintErrf(format+"\n", args...)
}

// Exit prints an error and exits with code 1.
func Exit(format string, args ...any) {
	PrintErr(format, args...)
	os.Exit(1)
}
