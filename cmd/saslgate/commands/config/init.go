package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/saslgate/internal/cli/prompt"
	"github.com/marmos91/saslgate/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample saslgate configuration file with defaults.

By default, the configuration file is created at
$XDG_CONFIG_HOME/saslgate/config.yaml. Use --config to specify a custom
path. When the file already exists you are asked before it is replaced.

Examples:
  # Initialize with default location
  saslgate config init

  # Initialize with custom path
  saslgate config init --config /etc/saslgate/config.yaml

  # Overwrite without asking
  saslgate config init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil {
		ok, err := prompt.ConfirmWithForce(
			fmt.Sprintf("Configuration file %s exists, overwrite?", configPath), initForce)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cfg := config.GetDefaultConfig()
	if err := config.SaveConfig(cfg, configPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set token.secret for TOKEN authentication")
	fmt.Println("  2. Configure kerberos.keytab_path and kerberos.service_principal for KERBEROS")
	fmt.Printf("  3. Check the result with: saslgate config show --config %s\n", configPath)

	return nil
}
