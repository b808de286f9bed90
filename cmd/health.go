// ABOUTME: Health command for the paper-polish CLI
// ABOUTME: Probes backend liveness from the HTTP status alone

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the paper-polish backend liveness endpoint.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health probe and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	c, _ := newGateway()

	ok, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		output := map[string]any{
			"backend": c.BaseURL(),
			"healthy": ok,
		}
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		status := "ok"
		if !ok {
			status = "unhealthy"
		}
		fmt.Fprintf(w, "Backend: %s\nStatus:  %s\n", c.BaseURL(), status)
	}

	if !ok {
		return 1
	}
	return 0
}
