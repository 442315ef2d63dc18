// Package main is the entry point for the respect CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/respect/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
