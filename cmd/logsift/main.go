package main

import (
	"os"

	"github.com/crimson-sun/logsift/cmd/logsift/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
