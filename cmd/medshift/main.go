package main

import (
	"os"

	"github.com/wardline/medshift/backend/cmd/medshift/commands"
)

// main is the entry point for the MedShift analytics CLI
// Unified CLI entry: go run ./cmd/medshift [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
