// ABOUTME: TUI command launching the interactive terminal interface
// ABOUTME: Full workflow: login, editing, version selection, comparison, history

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paperai/polish-cli/internal/tui"
	"github.com/paperai/polish-cli/internal/workflow"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal interface",
	Long: `Launch the full-screen terminal interface.

The TUI covers the whole workflow: logging in, editing text, submitting in
single- or multi-version mode, picking a variant, reviewing annotated changes,
and browsing the polishing history.`,
	Run: func(cmd *cobra.Command, args []string) {
		api, store := newGateway()
		cfg := loadConfig()
		defaults := workflow.Config{
			Style:    cfg.Style,
			Language: cfg.Language,
			Provider: cfg.Provider,
		}
		if err := tui.Run(api, store, defaults); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
