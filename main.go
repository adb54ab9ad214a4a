package main

import (
	"os"

	"github.com/abhisek/shibl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
