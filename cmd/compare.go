// ABOUTME: Compare command showing per-change annotations for a polished text
// ABOUTME: Marks annotated spans inline and lists each change with its reason

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paperai/polish-cli/internal/client"
	"github.com/paperai/polish-cli/internal/highlight"
)

var (
	compareVersion      string
	compareSaveOriginal string
	compareSavePolished string
)

var compareCmd = &cobra.Command{
	Use:   "compare <trace-id>",
	Short: "Show the annotated comparison for a polishing request",
	Long: `Fetch the comparison state for a trace id and print the polished text
with each backend-identified change marked inline. Pending changes can be
applied with 'paper-polish accept' and 'paper-polish reject'.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCompare(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&compareVersion, "version", "", "Multi-version variant to compare (conservative, balanced, aggressive)")
	compareCmd.Flags().StringVar(&compareSaveOriginal, "save-original", "", "Write the original text to a file")
	compareCmd.Flags().StringVar(&compareSavePolished, "save-polished", "", "Write the current polished text to a file")
}

func runCompare(ctx context.Context, w io.Writer, traceID string) int {
	api, _ := newGateway()
	state, err := api.Comparison(ctx, traceID, compareVersion)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if compareSaveOriginal != "" {
		if err := os.WriteFile(compareSaveOriginal, []byte(state.OriginalContent), 0644); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}
	if compareSavePolished != "" {
		if err := os.WriteFile(compareSavePolished, []byte(state.CurrentContent), 0644); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	if IsJSONOutput() {
		return printJSON(w, state)
	}
	if err := formatComparisonHuman(w, state); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	return 0
}

func formatComparisonHuman(w io.Writer, state *client.ComparisonState) error {
	segments, err := highlight.Segments(state.CurrentContent, state.Annotations)
	if err != nil {
		return err
	}

	// Number annotated spans in text order so the inline markers line up
	// with the legend below.
	marker := make(map[string]int, len(state.Annotations))
	next := 1
	var text strings.Builder
	for _, seg := range segments {
		if seg.Kind == highlight.KindAnnotated {
			if _, ok := marker[seg.ChangeID]; !ok {
				marker[seg.ChangeID] = next
				next++
			}
			fmt.Fprintf(&text, "[%d]%s[/%d]", marker[seg.ChangeID], seg.Text, marker[seg.ChangeID])
			continue
		}
		text.WriteString(seg.Text)
	}

	fmt.Fprintln(w, text.String())

	if len(state.Annotations) == 0 {
		fmt.Fprintln(w, "\nNo changes.")
		return nil
	}

	fmt.Fprintln(w, "\nChanges:")
	for _, ann := range state.Annotations {
		n, inText := marker[ann.ID]
		label := "  "
		if inText {
			label = fmt.Sprintf("%2d", n)
		}
		fmt.Fprintf(w, "%s. %s %s (%s): %q -> %q\n", label, ann.ID, statusBadge(ann.Status), ann.Type, ann.OriginalText, ann.PolishedText)
		if ann.Reason != "" {
			fmt.Fprintf(w, "      %s\n", ann.Reason)
		}
	}

	if state.Metadata.TotalChanges > 0 {
		fmt.Fprintf(w, "\n%d changes", state.Metadata.TotalChanges)
		if state.Metadata.AcademicScoreImprovement > 0 {
			fmt.Fprintf(w, ", score +%.1f", state.Metadata.AcademicScoreImprovement)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func statusBadge(status string) string {
	switch status {
	case client.AnnotationAccepted:
		return "[accepted]"
	case client.AnnotationRejected:
		return "[rejected]"
	default:
		return "[pending]"
	}
}
