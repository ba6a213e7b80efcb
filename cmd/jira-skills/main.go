package main

import (
	"os"

	"github.com/nhle/jira-skills/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if cmd.PrintError(os.Stderr, err) {
			os.Exit(1)
		}
	}
}
