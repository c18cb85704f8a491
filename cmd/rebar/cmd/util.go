package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// checkError prints a fatal error and exits with spec.md §6's "invalid
// input" exit code. Reserved for whole-batch invariants (bad CLI flags,
// unreadable input files); per-sample failures never reach this.
func checkError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func getFlagString(cmd *cobra.Command, name string) string {
	s, err := cmd.Flags().GetString(name)
	checkError(err)
	return s
}

func getFlagInt(cmd *cobra.Command, name string) int {
	i, err := cmd.Flags().GetInt(name)
	checkError(err)
	return i
}

func getFlagBool(cmd *cobra.Command, name string) bool {
	b, err := cmd.Flags().GetBool(name)
	checkError(err)
	return b
}

func getFlagCommaList(cmd *cobra.Command, name string) []string {
	raw := getFlagString(cmd, name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

func getFlagPositiveInt(cmd *cobra.Command, name string) int {
	i := getFlagInt(cmd, name)
	if i <= 0 {
		checkError(fmt.Errorf("value of flag %s should be greater than 0", name))
	}
	return i
}
