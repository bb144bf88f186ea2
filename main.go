package main

import (
	"os"

	"github.com/yhkl-dev/qqm/cli"
)

func main() {
	os.Exit(cli.Execute())
}
