package main

import (
	"os"

	"github.com/PolarWolf314/musings/cmd"
)

func main() {
	// Commands print their own failures.
	if err := cmd.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
