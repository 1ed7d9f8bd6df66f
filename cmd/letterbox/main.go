package main

import (
	"os"

	"github.com/badno/letterbox/cmd/letterbox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
