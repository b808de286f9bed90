// ABOUTME: Select command committing one variant of a multi-version request
// ABOUTME: The chosen variant becomes the content for comparison and actions

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select <trace-id> <version>",
	Short: "Pick one variant of a multi-version polish",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSelect(ctx, os.Stdout, args[0], args[1])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
}

func runSelect(ctx context.Context, w io.Writer, traceID, version string) int {
	api, _ := newGateway()
	result, err := api.SelectVersion(ctx, traceID, version)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		return printJSON(w, result)
	}
	fmt.Fprintf(w, "Selected %s for trace %s.\n", version, result.TraceID)
	fmt.Fprintln(w, result.PolishedContent)
	return 0
}
