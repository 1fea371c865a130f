package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/saslgate/internal/cli/output"
	"github.com/marmos91/saslgate/pkg/sasl"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List supported authentication methods",
	Long: `List the authentication methods the server negotiates, with their
wire codes and the SASL mechanism each one maps to.

The TOKEN mechanism is read from the configuration (token.mechanism);
DIGEST is its deprecated wire alias and shares code 82.

Examples:
  # List methods with the default token mechanism
  saslgate methods

  # List methods as configured
  saslgate methods --config /etc/saslgate/config.yaml`,
	RunE: runMethods,
}

func runMethods(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sasl.Init(cfg)

	methods := []sasl.AuthMethod{
		sasl.AuthSimple,
		sasl.AuthKerberos,
		sasl.AuthDigest,
		sasl.AuthToken,
		sasl.AuthPlain,
	}

	table := output.NewTableData("METHOD", "CODE", "MECHANISM")
	for _, m := range methods {
		mechanism := m.MechanismName()
		if mechanism == "" {
			mechanism = "-"
		}
		table.AddRow(m.String(), fmt.Sprintf("%d", m.Code()), mechanism)
	}

	return output.PrintTable(os.Stdout, table)
}
