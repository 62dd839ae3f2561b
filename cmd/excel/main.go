package main

import (
	"os"

	"github.com/jdpolicano/excel/cmd/excel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
