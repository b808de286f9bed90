// ABOUTME: Root command for the paper-polish CLI
// ABOUTME: Handles global flags, configuration, and shared gateway construction

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paperai/polish-cli/internal/client"
	"github.com/paperai/polish-cli/internal/config"
	"github.com/paperai/polish-cli/internal/session"
)

var (
	apiURL     string
	jsonOutput bool

	loadedConfig *config.Config
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "paper-polish",
	Short: "CLI for the paper-polish academic writing assistant",
	Long: `paper-polish is a terminal client for the paper-polish backend.

It polishes academic text in single- or multi-version mode, browses the
polishing history, and reviews per-change annotations interactively.

Environment Variables:
  PAPER_POLISH_API_URL     Backend API URL (default: http://localhost:8080)
  PAPER_POLISH_CONFIG      Path to a YAML config file
  PAPER_POLISH_CONFIG_DIR  Directory for session state and logs`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides PAPER_POLISH_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// loadConfig parses configuration once per process. A broken config file is
// reported but does not abort; flag and built-in defaults still apply.
func loadConfig() *config.Config {
	if loadedConfig != nil {
		return loadedConfig
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		cfg = &config.Config{APIURL: "http://localhost:8080", Style: "academic", Language: "en"}
	}
	loadedConfig = cfg
	return loadedConfig
}

// GetAPIURL returns the API URL from flag, env/config file, or default (in
// priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	return loadConfig().APIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// configDir resolves the directory holding session files and logs.
func configDir() string {
	if dir := loadConfig().ConfigDir; dir != "" {
		return dir
	}
	return session.DefaultConfigDir()
}

// newGateway builds the API client wired to the persisted session.
func newGateway() (*client.Client, *session.Store) {
	store := session.New(configDir())
	return client.New(GetAPIURL(), store), store
}
