// Command ecmalite is a thin CLI wrapper over pkg/engine, mirroring the
// teacher's cmd/dwscript entry point: cobra handles subcommand dispatch,
// the command package itself holds no engine logic beyond wiring flags to
// pkg/engine calls.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/ecmalite/cmd/ecmalite/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
