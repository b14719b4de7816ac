package main

import (
	"os"

	"github.com/Genty83/SimplifyTable/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
