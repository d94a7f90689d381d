package main

import (
	"os"

	"github.com/Carmen-Shannon/oxy-life/cmd/oxy-life/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
