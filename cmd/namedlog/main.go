// Package main provides the entry point for the namedlog CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/namedlog/cmd/namedlog/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
