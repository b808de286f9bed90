// ABOUTME: Stats command summarizing polishing usage
// ABOUTME: Supports an optional time window via --since and --until

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
	statsSince string
	statsUntil string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show polishing usage statistics",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runStats(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsSince, "since", "", "Window start (RFC3339 or YYYY-MM-DD)")
	statsCmd.Flags().StringVar(&statsUntil, "until", "", "Window end (RFC3339 or YYYY-MM-DD)")
}

func runStats(ctx context.Context, w io.Writer) int {
	since, err := parseTimeFlag(statsSince)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	until, err := parseTimeFlag(statsUntil)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	api, _ := newGateway()
	stats, err := api.GetStatistics(ctx, since, until)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		return printJSON(w, stats)
	}
	formatStatsHuman(w, stats)
	return 0
}

func formatStatsHuman(w io.Writer, s *client.Statistics) {
	fmt.Fprintf(w, "Total requests:   %d\n", s.TotalRequests)
	fmt.Fprintf(w, "Succeeded:        %d\n", s.SuccessCount)
	fmt.Fprintf(w, "Failed:           %d\n", s.FailedCount)
	fmt.Fprintf(w, "Characters:       %d\n", s.TotalCharacters)
	fmt.Fprintf(w, "Avg process time: %.0f ms\n", s.AvgProcessTimeMs)
	if s.MostUsedStyle != "" {
		fmt.Fprintf(w, "Top style:        %s\n", s.MostUsedStyle)
	}
	if s.MostUsedLanguage != "" {
		fmt.Fprintf(w, "Top language:     %s\n", s.MostUsedLanguage)
	}
	fmt.Fprintf(w, "This month:       %d\n", s.RequestsThisMonth)
}
