package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jcmturner/gokrb5/v8/keytab"
	"github.com/spf13/cobra"

	"github.com/marmos91/saslgate/internal/cli/output"
)

var keytabCmd = &cobra.Command{
	Use:   "keytab",
	Short: "Service keytab management",
	Long: `Inspect the Kerberos service keytab used for GSSAPI negotiations.

Subcommands:
  inspect  List keytab entries`,
}

var keytabInspectCmd = &cobra.Command{
	Use:   "inspect [path]",
	Short: "List keytab entries",
	Long: `List the principals, key versions, and encryption types in a keytab.

Without a path argument the keytab configured under kerberos.keytab_path
is inspected.

Examples:
  # Inspect the configured keytab
  saslgate keytab inspect

  # Inspect a specific keytab file
  saslgate keytab inspect /etc/saslgate/saslgate.keytab`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKeytabInspect,
}

func init() {
	keytabCmd.AddCommand(keytabInspectCmd)
}

// encTypeNames maps the common Kerberos encryption type ids to their names.
var encTypeNames = map[int32]string{
	17: "aes128-cts-hmac-sha1-96",
	18: "aes256-cts-hmac-sha1-96",
	19: "aes128-cts-hmac-sha256-128",
	20: "aes256-cts-hmac-sha384-192",
	23: "rc4-hmac",
}

func encTypeName(id int32) string {
	if name, ok := encTypeNames[id]; ok {
		return name
	}
	return fmt.Sprintf("etype(%d)", id)
}

func runKeytabInspect(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Kerberos.KeytabPath
	}
	if path == "" {
		return fmt.Errorf("no keytab path given and kerberos.keytab_path is not configured")
	}

	kt, err := keytab.Load(path)
	if err != nil {
		return fmt.Errorf("load keytab %s: %w", path, err)
	}

	table := output.NewTableData("PRINCIPAL", "REALM", "KVNO", "ENCTYPE", "TIMESTAMP")
	for _, e := range kt.Entries {
		table.AddRow(
			strings.Join(e.Principal.Components, "/"),
			e.Principal.Realm,
			fmt.Sprintf("%d", e.KVNO),
			encTypeName(e.Key.KeyType),
			e.Timestamp.UTC().Format(time.RFC3339),
		)
	}

	return output.PrintTable(os.Stdout, table)
}
