package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the backend version, overridable at build time with
// -ldflags "-X github.com/agentcoder/agentcoder/cmd.Version=...".
var Version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agentcoder %s\n", Version)
	},
}
