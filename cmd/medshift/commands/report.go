package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [facility_id]",
	Short: "Generate a one-shot analytics report",
	Long: `Generates the analytics report for one facility and prints it as JSON.

The default window is the current calendar month in the facility's
time zone. Pass --from/--to (YYYY-MM-DD) for an explicit window.

Example:
  go run ./cmd/medshift report fac-001
  go run ./cmd/medshift report fac-001 --from 2026-07-01 --to 2026-08-01
  go run ./cmd/medshift report fac-001 --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var (
	reportFrom   string
	reportTo     string
	reportPretty bool
)

func init() {
	rootCmd.AddCommand(reportCmd)

	// Flags
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "window start (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "window end, exclusive (YYYY-MM-DD)")
	reportCmd.Flags().BoolVar(&reportPretty, "pretty", false, "indent JSON output")
}

func runReport(cmd *cobra.Command, args []string) error {
	facilityID := args[0]

	from, err := parseDateFlag(reportFrom)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := parseDateFlag(reportTo)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}

	// One-shot runs skip the report cache
	d, err := initDeps(false)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	report, err := d.service.GenerateReport(ctx, facilityID, from, to)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	if reportPretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}

// parseDateFlag parses an optional YYYY-MM-DD flag value.
func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
