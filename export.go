package main

import (
	"fmt"
	"time"

	"github.com/fmuoria/interview-coach/internal/export"
	"github.com/fmuoria/interview-coach/internal/results"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored interviews to an Excel workbook",
	RunE:  runExport,
}

var (
	exportID     string
	exportAll    bool
	exportFilter string
	exportOutput string
)

func init() {
	exportCmd.Flags().StringVar(&exportID, "id", "", "ID of the interview to export")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export the whole interview history")
	exportCmd.Flags().StringVar(&exportFilter, "filter", "", "History filter with --all, e.g. \"90%+\" or \"Interviews\"")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output .xlsx path (default: a timestamped file in the current directory)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if (exportID == "") == !exportAll {
		return fmt.Errorf("must provide exactly one of --id or --all")
	}

	env, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer env.Close()

	output := exportOutput
	timestamp := time.Now().Format("2006-01-02_150405")

	var written string
	if exportAll {
		filter, err := results.ParseFilter(exportFilter)
		if err != nil {
			return err
		}
		records, err := env.agent.List(cmd.Context(), results.Query{Filter: filter})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("no interviews to export")
		}
		if output == "" {
			output = fmt.Sprintf("Interview_History_%s.xlsx", timestamp)
		}
		if written, err = export.ExportHistory(records, output); err != nil {
			return err
		}
	} else {
		id, err := uuid.Parse(exportID)
		if err != nil {
			return fmt.Errorf("invalid interview id %q: %w", exportID, err)
		}
		record, err := env.agent.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		if output == "" {
			output = fmt.Sprintf("Interview_%s_%s.xlsx", id.String()[:8], timestamp)
		}
		if written, err = export.ExportInterview(record, output); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", written)
	return nil
}
