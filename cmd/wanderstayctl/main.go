package main

import (
	"os"

	"wanderstay/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
