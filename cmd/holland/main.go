// Command holland runs the pluggable backup orchestrator's CLI.
package main

import (
	"os"

	"github.com/holland-backup/holland/cmd/holland/cmd"
)

func main() {
	os.Exit(cmd.NewCLI().Execute())
}
