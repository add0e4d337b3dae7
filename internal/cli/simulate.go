package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/scenario"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
)

var (
	scenarioPath string
	outputFormat string
	verbose      bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a YAML scenario through the engine and print its occurrences",
	RunE:  simulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&scenarioPath, "file", "f", "", "scenario file")
	simulateCmd.Flags().StringVar(&outputFormat, "format", "table", "output format: table or csv")
	simulateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log engine decisions")
	_ = simulateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(simulateCmd)
}

func simulate(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(outputFormat)
	if format != "table" && format != "csv" {
		return fmt.Errorf("unsupported format %q", outputFormat)
	}

	sc, err := scenario.Load(scenarioPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck
	}

	res, err := sc.Run(logger)
	if err != nil {
		return err
	}
	stderr := cmd.ErrOrStderr()
	for _, w := range res.Warnings {
		fmt.Fprintf(stderr, "warning: %s %s: %s\n", w.Kind, w.ClassID, w.Message)
	}
	if res.Run.Outcome == scheduler.OutcomeExhausted {
		return fmt.Errorf("class %s could not be placed after %d attempts", res.Run.FailedClassID, res.Run.Attempts)
	}

	data := service.OccurrenceDataset(res.Timetable, sc.Classes, res.Occurrences)
	out := cmd.OutOrStdout()
	if format == "csv" {
		body, err := export.NewCSVExporter().Render(data)
		if err != nil {
			return err
		}
		_, err = out.Write(body)
		return err
	}
	if err := writeTable(out, data); err != nil {
		return err
	}
	fmt.Fprintf(stderr, "%d assignments, %d occurrences, %d restarts\n", len(res.Run.Assignments), len(res.Occurrences), res.Run.Restarts)
	return nil
}

func writeTable(out io.Writer, data export.Dataset) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(data.Headers, "\t"))
	cells := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i, h := range data.Headers {
			cells[i] = row[h]
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
