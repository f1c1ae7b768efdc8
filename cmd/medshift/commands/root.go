package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "medshift",
	Short: "MedShift - facility analytics for the staffing marketplace",
	Long: `MedShift Analytics CLI

Analytics and forecasting engine for hospital facilities: operational
metrics, budget compliance, staffing-gap forecasts, performer rankings,
and cost advisories.

Usage:
  go run ./cmd/medshift [command]

Examples:
  go run ./cmd/medshift api
  go run ./cmd/medshift report fac-001
  go run ./cmd/medshift scheduler start
  go run ./cmd/medshift test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
