// Command auditor talks to a case-management system directly from the shell.
package main

import (
	"fmt"
	"os"

	"legal-file-auditor/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
