// ABOUTME: Record command showing one polishing history entry by trace id
// ABOUTME: Prints the original and polished text side by side

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

var recordCmd = &cobra.Command{
	Use:   "record <trace-id>",
	Short: "Show one polishing record",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRecord(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(recordCmd)
}

func runRecord(ctx context.Context, w io.Writer, traceID string) int {
	api, _ := newGateway()
	record, err := api.RecordByTraceID(ctx, traceID)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		return printJSON(w, record)
	}
	formatRecordHuman(w, record)
	return 0
}

func formatRecordHuman(w io.Writer, r *client.PolishRecord) {
	fmt.Fprintf(w, "Trace:    %s\n", r.TraceID)
	if !r.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created:  %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "Style:    %s\n", r.Style)
	fmt.Fprintf(w, "Language: %s\n", r.Language)
	if r.Provider != "" {
		fmt.Fprintf(w, "Provider: %s\n", r.Provider)
	}
	fmt.Fprintf(w, "Status:   %s\n", r.Status)
	fmt.Fprintf(w, "\n--- Original ---\n%s\n", r.OriginalContent)
	fmt.Fprintf(w, "\n--- Polished ---\n%s\n", r.PolishedContent)
}
