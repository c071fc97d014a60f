package kv

import (
	"github.com/spf13/cobra"

	"github.com/hpkv-io/rioc-go/cmd/util"
	"github.com/hpkv-io/rioc-go/rioc/client"
	"github.com/hpkv-io/rioc-go/rioc/common"
)

var (
	session *client.Client

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value store operations",
		PersistentPreRunE: setupSession,
		PersistentPostRun: teardownSession,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add the connection flags to the KV command group
	util.SetupClientFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(insertCmd)
	KeyValueCommands.AddCommand(deleteCmd)
	KeyValueCommands.AddCommand(rangeCmd)
	KeyValueCommands.AddCommand(incrCmd)
	KeyValueCommands.AddCommand(batchCmd)
	KeyValueCommands.AddCommand(perfCmd)
}

// setupSession connects the shared client session
func setupSession(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	common.InitLoggers(util.GetLogLevel())

	var err error
	session, err = client.Connect(util.GetClientConfig())
	return err
}

func teardownSession(_ *cobra.Command, _ []string) {
	if session != nil {
		session.Close()
	}
}
