package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hpkv-io/rioc-go/cmd/kv"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "rioc",
		Short: "client for the rioc key-value store",
		Long: fmt.Sprintf(`rioc (v%s)

A pipelined client for the rioc key-value store protocol,
speaking plain TCP or mutually authenticated TLS 1.3.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of rioc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("rioc v%s\n", Version)
		},
	}
)

func init() {
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)
}
