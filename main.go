package main

import (
	"os"

	"github.com/mridgway/shaker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
