package main

import (
	"os"

	"github.com/roach88/mjscene/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
