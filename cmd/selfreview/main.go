package main

import (
	"os"

	"github.com/dshills/selfreview/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
