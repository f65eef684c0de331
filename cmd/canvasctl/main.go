// This is the entry point for the canvasctl demonstration CLI. It
// exercises the engine end to end (parse, validate, migrate, merge,
// hit-test) as an external collaborator: it depends on the engine's
// packages but contains no engine logic of its own.
// Build with: go build -o bin/canvasctl ./cmd/canvasctl
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
