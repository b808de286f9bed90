// ABOUTME: Accept and reject commands applying edit actions to a comparison
// ABOUTME: The server returns authoritative updated content after each action

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paperai/polish-cli/internal/client"
)

var (
	acceptAll bool
	rejectAll bool
)

var acceptCmd = &cobra.Command{
	Use:   "accept <trace-id> [change-id...]",
	Short: "Accept changes in a comparison",
	Long: `Accept one or more pending changes. With --all every pending change is
accepted; change ids then restrict the batch to a subset.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAction(ctx, os.Stdout, client.ActionAccept, client.ActionAcceptAll, acceptAll, args)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <trace-id> [change-id...]",
	Short: "Reject changes in a comparison",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAction(ctx, os.Stdout, client.ActionReject, client.ActionRejectAll, rejectAll, args)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(acceptCmd)
	rootCmd.AddCommand(rejectCmd)
	acceptCmd.Flags().BoolVar(&acceptAll, "all", false, "Accept every pending change")
	rejectCmd.Flags().BoolVar(&rejectAll, "all", false, "Reject every pending change")
}

func runAction(ctx context.Context, w io.Writer, single, batch string, all bool, args []string) int {
	traceID := args[0]
	changeIDs := args[1:]

	api, _ := newGateway()

	if all {
		result, err := api.ApplyBatch(ctx, traceID, batch, changeIDs)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		if IsJSONOutput() {
			return printJSON(w, result)
		}
		fmt.Fprintf(w, "Applied %d changes.\n", result.AppliedCount)
		fmt.Fprintln(w, result.UpdatedContent)
		return 0
	}

	if len(changeIDs) == 0 {
		fmt.Fprintln(w, "Error: a change id is required unless --all is given")
		return 2
	}

	var last *client.ActionResult
	for _, id := range changeIDs {
		result, err := api.ApplyChange(ctx, traceID, id, single)
		if err != nil {
			fmt.Fprintf(w, "Error: %s: %v\n", id, err)
			return 2
		}
		last = result
	}

	if IsJSONOutput() {
		return printJSON(w, last)
	}
	fmt.Fprintln(w, last.UpdatedContent)
	return 0
}
