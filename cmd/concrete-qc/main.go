package main

import (
	"os"

	"github.com/spf13/cobra"
)

var Version string

func main() {
	root := &cobra.Command{
		Use:          "concrete-qc",
		Short:        "Concrete compressive-strength control charts and QC report",
		Version:      Version,
		SilenceUsage: true,
	}

	root.AddCommand(NewServeCommand())
	root.AddCommand(NewSummarizeCommand())
	root.AddCommand(NewExampleCommand())

	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
