package main

import (
	"os"

	"github.com/miyuchina/compiler/cmd/gone/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
