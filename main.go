// ABOUTME: Entry point for the paper-polish CLI
// ABOUTME: Terminal client for the paper-polish academic writing backend

package main

import (
	"fmt"
	"os"

	"github.com/paperai/polish-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
