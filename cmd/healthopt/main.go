// ABOUTME: Entry point for the healthopt CLI.
// ABOUTME: Executes the root cobra command and exits non-zero on failure.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
