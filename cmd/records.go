// ABOUTME: Records command listing the polishing history with filters
// ABOUTME: Supports pagination and provider/status/language/style filtering

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/paperai/polish-cli/internal/client"
)

var (
	recordsPage     int
	recordsPageSize int
	recordsProvider string
	recordsStatus   string
	recordsLanguage string
	recordsStyle    string
	recordsSince    string
	recordsUntil    string
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List the polishing history",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRecords(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(recordsCmd)
	recordsCmd.Flags().IntVar(&recordsPage, "page", 1, "Page number")
	recordsCmd.Flags().IntVar(&recordsPageSize, "page-size", 20, "Records per page")
	recordsCmd.Flags().StringVar(&recordsProvider, "provider", "", "Filter by provider")
	recordsCmd.Flags().StringVar(&recordsStatus, "status", "", "Filter by status")
	recordsCmd.Flags().StringVar(&recordsLanguage, "language", "", "Filter by language")
	recordsCmd.Flags().StringVar(&recordsStyle, "style", "", "Filter by style")
	recordsCmd.Flags().StringVar(&recordsSince, "since", "", "Only records created after this time (RFC3339 or YYYY-MM-DD)")
	recordsCmd.Flags().StringVar(&recordsUntil, "until", "", "Only records created before this time (RFC3339 or YYYY-MM-DD)")
}

// parseTimeFlag accepts RFC3339 or a bare date.
func parseTimeFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, want RFC3339 or YYYY-MM-DD", value)
	}
	return t, nil
}

func runRecords(ctx context.Context, w io.Writer) int {
	since, err := parseTimeFlag(recordsSince)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	until, err := parseTimeFlag(recordsUntil)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	api, _ := newGateway()
	list, err := api.Records(ctx, &client.RecordQuery{
		Page:        recordsPage,
		PageSize:    recordsPageSize,
		Provider:    recordsProvider,
		Status:      recordsStatus,
		Language:    recordsLanguage,
		Style:       recordsStyle,
		ExcludeText: true,
		StartTime:   since,
		EndTime:     until,
	})
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		return printJSON(w, list)
	}
	formatRecordsHuman(w, list)
	return 0
}

func formatRecordsHuman(w io.Writer, list *client.RecordList) {
	if len(list.Records) == 0 {
		fmt.Fprintln(w, "No records.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TRACE ID\tCREATED\tSTYLE\tLANGUAGE\tPROVIDER\tSTATUS")
	for _, r := range list.Records {
		created := ""
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.TraceID, created, r.Style, r.Language, r.Provider, r.Status)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nPage %d (%d of %d records)\n", list.Page, len(list.Records), list.Total)
}
