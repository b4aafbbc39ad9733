package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"concrete-qc/internal/dataset"
)

func NewExampleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write the example CSV to stdout or a file",
		Args:  cobra.NoArgs,
		RunE:  example,
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")

	return cmd
}

func example(cmd *cobra.Command, args []string) error {
	out, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("output flag: %w", err)
	}

	if out == "" {
		_, err = cmd.OutOrStdout().Write(dataset.ExampleCSV())
		return err
	}
	if err := os.WriteFile(out, dataset.ExampleCSV(), 0o644); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
