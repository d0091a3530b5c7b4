// Command treatctl runs recommendations against a catalog file or database
// and seeds a database from a catalog file.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "treatctl",
		Short:         "Heat treatment recommendation tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRecommendCommand(), newSeedCommand())
	return root
}
