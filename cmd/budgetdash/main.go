package main

import (
	"os"

	"github.com/budgetdash-dev/budgetdash/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
