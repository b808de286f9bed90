// ABOUTME: Tests for root command configuration resolution
// ABOUTME: Covers API URL precedence between flag, environment, and default

package cmd

import (
	"testing"

	"github.com/paperai/polish-cli/internal/config"
)

func resetGlobals(t *testing.T) {
	t.Helper()
	prevURL, prevJSON, prevConfig := apiURL, jsonOutput, loadedConfig
	t.Cleanup(func() {
		apiURL, jsonOutput, loadedConfig = prevURL, prevJSON, prevConfig
	})
	apiURL = ""
	jsonOutput = false
	loadedConfig = nil
}

func TestGetAPIURL_FlagTakesPriority(t *testing.T) {
	resetGlobals(t)
	loadedConfig = &config.Config{APIURL: "http://from-config:8080", Style: "academic"}
	apiURL = "http://from-flag:9000"

	if got := GetAPIURL(); got != "http://from-flag:9000" {
		t.Errorf("expected flag value, got %q", got)
	}
}

func TestGetAPIURL_FallsBackToConfig(t *testing.T) {
	resetGlobals(t)
	loadedConfig = &config.Config{APIURL: "http://from-config:8080", Style: "academic"}

	if got := GetAPIURL(); got != "http://from-config:8080" {
		t.Errorf("expected config value, got %q", got)
	}
}

func TestGetAPIURL_Default(t *testing.T) {
	resetGlobals(t)
	t.Chdir(t.TempDir())

	if got := GetAPIURL(); got != "http://localhost:8080" {
		t.Errorf("expected default URL, got %q", got)
	}
}

func TestIsJSONOutput(t *testing.T) {
	resetGlobals(t)

	if IsJSONOutput() {
		t.Error("expected JSON output off by default")
	}
	jsonOutput = true
	if !IsJSONOutput() {
		t.Error("expected JSON output on after flag set")
	}
}

func TestConfigDir_ExplicitOverride(t *testing.T) {
	resetGlobals(t)
	loadedConfig = &config.Config{APIURL: "http://x", Style: "academic", ConfigDir: "/tmp/custom"}

	if got := configDir(); got != "/tmp/custom" {
		t.Errorf("expected explicit config dir, got %q", got)
	}
}
