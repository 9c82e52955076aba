package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "inferentia",
		Short: "Meeting knowledge extraction from the command line",
		Long: `Processes meeting recordings into per-team knowledge bases without
running the API server. Uses the same pipeline and configuration as the
server, with the flat-file knowledge store.`,
		SilenceUsage: true,
	}

	root.AddCommand(newProcessCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newKBCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
