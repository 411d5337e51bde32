// Command dscodec converts records, keys and queries to and from the protocol
// shapes of a hierarchical key-value store.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/dscodec/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
