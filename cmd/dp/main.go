package main

import (
	"os"

	"github.com/bnema/devicepool-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
