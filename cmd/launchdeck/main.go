package main

import (
	"os"

	"github.com/existflow/launchdeck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
