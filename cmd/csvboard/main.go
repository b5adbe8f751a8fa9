package main

import (
	"os"

	"github.com/Makepad-fr/csvboard/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
