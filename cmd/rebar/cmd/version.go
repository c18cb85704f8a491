package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// VERSION is the rebar CLI version string.
const VERSION = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rebar v%s\n", VERSION)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
