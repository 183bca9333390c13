package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

var reportPath string

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Lock ended sprints and cascade column statuses",
	Long: `Run the daily sprint sweep once across every board and print the report.

Meant to be scheduled, e.g. from cron shortly after midnight in the configured
timezone. A board that fails is reported and the remaining boards are still
processed.

Examples:
  sprintboard sweep --config sprintboard.yaml
  sprintboard sweep --report /var/lib/sprintboard/last-sweep.json`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().StringVar(&reportPath, "report", "", "also write the JSON report to this file")
}

func runSweep(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close()

	report, err := a.boards.Sweep(cmd.Context())
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')

	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return err
	}
	if reportPath != "" {
		if err := atomic.WriteFile(reportPath, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		a.logger.Info("sweep report written", slog.String("path", reportPath))
	}

	if len(report.Errors) > 0 {
		return fmt.Errorf("sweep finished with %d failed boards", len(report.Errors))
	}
	return nil
}
