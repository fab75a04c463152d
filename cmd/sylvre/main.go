package main

import (
	"os"

	"github.com/sylvre-lang/sylvre/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
