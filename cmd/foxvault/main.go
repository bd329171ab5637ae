package main

import (
	"fmt"
	"os"

	"github.com/roach88/foxvault/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, "foxvault:", msg)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
