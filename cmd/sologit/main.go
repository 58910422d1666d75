package main

import (
	"os"

	"github.com/sologit/sologit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
