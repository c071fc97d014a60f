package main

import (
	"os"

	"github.com/hpkv-io/rioc-go/cmd"
)

func main() {
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
