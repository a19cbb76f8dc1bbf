package main

import (
	"os"

	"postpilot/cli"
)

func main() {
	os.Exit(cli.Execute())
}
