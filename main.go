package main

import (
	"os"

	"github.com/mbaxter/notes-serverless/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
