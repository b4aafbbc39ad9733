package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"concrete-qc/internal/constants"
	"concrete-qc/internal/dataset"
	"concrete-qc/internal/service/qc"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func NewSummarizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize <file>",
		Short: "Print derived columns and the QC conclusion for a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE:  summarize,
	}

	cmd.Flags().Float64("fc", constants.DefaultFc, "Specified strength fc' (kg/cm²)")
	cmd.Flags().Float64("fcr", constants.DefaultFcr, "Target strength fcr' (kg/cm²)")
	cmd.Flags().String("format", formatText, "Output format: text, json or yaml")

	return cmd
}

func summarize(cmd *cobra.Command, args []string) error {
	fc, err := cmd.Flags().GetFloat64("fc")
	if err != nil {
		return fmt.Errorf("fc flag: %w", err)
	}
	fcr, err := cmd.Flags().GetFloat64("fcr")
	if err != nil {
		return fmt.Errorf("fcr flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("format flag: %w", err)
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	ds, err := dataset.Load(file, filepath.Base(args[0]))
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	rep, err := qc.NewService(log, nil).Analyze(cmd.Context(), ds, qc.Targets{Fc: fc, Fcr: fcr})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	return writeReport(cmd.OutOrStdout(), rep, format)
}

func writeReport(w io.Writer, rep *qc.Report, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
		return enc.Close()
	case formatText:
		return writeText(w, rep)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeText(w io.Writer, rep *qc.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{constants.ColSampleDate, constants.ColGroupNo, constants.ColLocation, "X", "R", "X̄5"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rep.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.SampleDate, row.GroupNo, row.Location,
			row.X.Format("%.1f"), row.R.Format("%.1f"), row.Xbar5.Format("%.1f"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, f := range rep.Findings {
		if f.Classification != nil {
			fmt.Fprintf(w, "%s: %s, %s\n", f.Label, f.Value, f.Classification.Text)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", f.Label, f.Value)
	}
	return nil
}
