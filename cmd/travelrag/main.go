// Command travelrag answers questions about uploaded travel documents.
package main

import (
	"os"

	"github.com/custodia-labs/travelrag/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
