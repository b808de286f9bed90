// ABOUTME: Polish command submitting text for single- or multi-version polishing
// ABOUTME: Reads content from a file, arguments, or stdin

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paperai/polish-cli/internal/client"
	"github.com/paperai/polish-cli/internal/workflow"
)

var (
	polishStyle    string
	polishLanguage string
	polishProvider string
	polishMulti    bool
	polishVersions []string
	polishFile     string
	polishOut      string
)

var polishCmd = &cobra.Command{
	Use:   "polish [text]",
	Short: "Polish academic text",
	Long: `Submit text for polishing and print the result.

Content is taken from --file when given, from the positional argument
otherwise, and from stdin when neither is present. With --multi the backend
generates up to three variants (conservative, balanced, aggressive); pick one
afterwards with 'paper-polish select'.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runPolish(ctx, os.Stdout, args)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(polishCmd)
	polishCmd.Flags().StringVar(&polishStyle, "style", "", "Polishing style: academic, formal, concise, detailed (default from config)")
	polishCmd.Flags().StringVar(&polishLanguage, "language", "", "Content language: en or zh (default from config)")
	polishCmd.Flags().StringVar(&polishProvider, "provider", "", "LLM provider override")
	polishCmd.Flags().BoolVar(&polishMulti, "multi", false, "Generate multiple versions in parallel")
	polishCmd.Flags().StringSliceVar(&polishVersions, "versions", nil, "Restrict --multi to a subset of variants")
	polishCmd.Flags().StringVarP(&polishFile, "file", "f", "", "Read content from a file")
	polishCmd.Flags().StringVarP(&polishOut, "out", "o", "", "Write polished content to a file")
}

// readContent resolves the text to polish from the flag, argument, or stdin.
func readContent(args []string) (string, error) {
	if polishFile != "" {
		data, err := os.ReadFile(polishFile)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", polishFile, err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func polishConfig() workflow.Config {
	cfg := loadConfig()
	wc := workflow.Config{
		Style:    cfg.Style,
		Language: cfg.Language,
		Provider: cfg.Provider,
	}
	if polishStyle != "" {
		wc.Style = polishStyle
	}
	if polishLanguage != "" {
		wc.Language = workflow.NormalizeLanguage(polishLanguage)
	}
	if polishProvider != "" {
		wc.Provider = polishProvider
	}
	return wc
}

func runPolish(ctx context.Context, w io.Writer, args []string) int {
	content, err := readContent(args)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	api, _ := newGateway()
	wf := workflow.New(api)
	cfg := polishConfig()

	if polishMulti {
		return runPolishMulti(ctx, w, wf, content, cfg)
	}
	return runPolishSingle(ctx, w, wf, content, cfg)
}

func runPolishSingle(ctx context.Context, w io.Writer, wf *workflow.Controller, content string, cfg workflow.Config) int {
	result, err := wf.SubmitSingle(ctx, content, cfg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if polishOut != "" {
		if err := os.WriteFile(polishOut, []byte(result.PolishedContent), 0644); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
	}

	if IsJSONOutput() {
		return printJSON(w, result)
	}
	fmt.Fprintln(w, result.PolishedContent)
	fmt.Fprintf(os.Stderr, "Trace: %s\n", result.TraceID)
	return 0
}

func runPolishMulti(ctx context.Context, w io.Writer, wf *workflow.Controller, content string, cfg workflow.Config) int {
	result, err := wf.SubmitMulti(ctx, content, cfg, polishVersions)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		return printJSON(w, result)
	}
	formatMultiHuman(w, result)
	return 0
}

func formatMultiHuman(w io.Writer, result *client.MultiPolishResult) {
	fmt.Fprintf(w, "Trace: %s\n", result.TraceID)
	if result.ProviderUsed != "" {
		fmt.Fprintf(w, "Provider: %s\n", result.ProviderUsed)
	}
	for _, key := range client.VersionKeys {
		variant, ok := result.Versions[key]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "\n=== %s (%s) ===\n", strings.ToUpper(key[:1])+key[1:], variant.Status)
		switch variant.Status {
		case client.VersionStatusSuccess:
			fmt.Fprintln(w, variant.PolishedContent)
			if len(variant.Suggestions) > 0 {
				fmt.Fprintln(w, "Suggestions:")
				for _, s := range variant.Suggestions {
					fmt.Fprintf(w, "  - %s\n", s)
				}
			}
		case client.VersionStatusFailed:
			fmt.Fprintf(w, "Failed: %s\n", variant.ErrorMessage)
		default:
			fmt.Fprintln(w, "Still processing.")
		}
	}
	fmt.Fprintf(w, "\nPick a version with: paper-polish select %s <version>\n", result.TraceID)
}

func printJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}
