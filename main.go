// =============================================================================
// Financial Dashboard - Main Entry Point
// =============================================================================
//
// USAGE:
//   dashboard serve       - Serve the dashboard over HTTP
//   dashboard report      - Print the sample rows and the revenue by segment
//   dashboard export      - Write the revenue workbook
//   dashboard validate    - Check the configuration and the data file
//   dashboard version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Loading, cleaning, aggregation and presentation
//   - pkg/           : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/financial-dashboard/cmd"
)

func main() {
	cmd.Execute()
}
