package main

import (
	"os"

	"github.com/ptw-cli/ptw/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
