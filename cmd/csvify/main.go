// csvify - Combat Log to CSV Padder
//
// csvify splits combat log records on top-level commas, finds the widest
// record across all inputs, and writes every record padded to that width.
package main

import (
	"os"

	"github.com/ccollicutt/csvify/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
