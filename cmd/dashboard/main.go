// Command dashboard runs the TerraNova wildfire recovery dashboard: the live
// server, a static page renderer, a synthetic backend, and a few lookup tools.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "TerraNova wildfire recovery dashboard",
		Long: `dashboard serves an interactive wildfire recovery view backed by the
TerraNova scenario API, falling back to bundled data when the API is unreachable.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newRenderCmd(),
		newDemoAPICmd(),
		newFiresCmd(),
		newStatesCmd(),
		newAskCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
