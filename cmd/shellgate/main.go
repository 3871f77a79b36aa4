// Package main provides the entry point for the shellgate CLI.
package main

import (
	"fmt"
	"os"

	"github.com/shellgate/shellgate/cmd/shellgate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
