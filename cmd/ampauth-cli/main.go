// Package main provides the entry point for ampauth-cli, the
// command-line management tool for an ampauth server.
package main

import (
	"fmt"
	"os"

	"github.com/amplify-platform/ampauth/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
