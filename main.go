package main

import (
	"os"

	"github.com/fwc-ai/hr-agent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
