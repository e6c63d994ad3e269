package main

import (
	"os"

	"github.com/abhisek/orcamath/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
