// Package main provides the tidata CLI.
package main

import (
	"os"

	"github.com/MartinUnity/games-terra-invicta/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
