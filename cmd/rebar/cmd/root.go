package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

// RootCmd is the base command when rebar is called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "rebar",
	Short: "Recombination detection for lineage-assigned genomes",
	Long: `rebar - recombination detection for lineage-assigned genomes

A command-line tool that matches genomes against a barcode/lineage
reference, detects recombinant lineage assignments, and locates the
parental regions and breakpoints behind each call.
`,
}

// Execute adds all child commands to RootCmd and runs it. Called once by
// main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	defaultThreads := runtime.NumCPU()
	if defaultThreads > 2 {
		defaultThreads = 2
	}

	RootCmd.PersistentFlags().IntP("threads", "j", defaultThreads, "number of samples to process concurrently")
	RootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose per-sample logging; forces single-threaded execution")
}
