package main

import (
	"os"

	"github.com/fieldmark-ai/fieldmark/internal/cli"
)

func main() {
	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
