// Command marsc compiles planned robot actions into controller command sequences.
package main

import (
	"os"

	"github.com/lafritemema/MARS-data-build/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
