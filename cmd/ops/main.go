package main

import (
	"os"

	"github.com/yourusername/indcric-api/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
