package main

import (
	"os"

	"github.com/accesskit/accesskit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
