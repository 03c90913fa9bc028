package main

import (
	"os"

	"github.com/solatis/recordfilter/cmd/recordfilter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
