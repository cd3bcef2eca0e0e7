// Command hostproctl performs one-off administration tasks against a
// HostPro database.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "hostproctl",
		Short:        "HostPro administration tool",
		SilenceUsage: true,
	}
	root.AddCommand(newSeedAdminCommand())
	root.AddCommand(newHashPasswordCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
