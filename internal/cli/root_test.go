package cmd_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cmd "github.com/rohmanhakim/robots-parser/internal/cli"
	"github.com/rohmanhakim/robots-parser/internal/config"
	"github.com/rohmanhakim/robots-parser/internal/metadata"
	"github.com/rohmanhakim/robots-parser/internal/robots"
)

// TestInitConfigNoFlags tests that InitConfigWithError returns a Config with
// default values when no flags are set
func TestInitConfigNoFlags(t *testing.T) {
	cmd.ResetFlags()

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	defaultCfg, err := config.WithDefault().Build()
	if err != nil {
		t.Errorf("should not have any error, got %v", err)
	}

	if cfg.UserAgent() != defaultCfg.UserAgent() {
		t.Errorf("Expected UserAgent %s, got %s", defaultCfg.UserAgent(), cfg.UserAgent())
	}
	if cfg.Timeout() != defaultCfg.Timeout() {
		t.Errorf("Expected Timeout %v, got %v", defaultCfg.Timeout(), cfg.Timeout())
	}
	if cfg.MaxAttempt() != defaultCfg.MaxAttempt() {
		t.Errorf("Expected MaxAttempt %d, got %d", defaultCfg.MaxAttempt(), cfg.MaxAttempt())
	}
	if !cfg.CacheEnabled() {
		t.Error("Expected CacheEnabled true by default")
	}
}

// TestInitConfigWithFlagOverrides tests that flag values override the defaults
func TestInitConfigWithFlagOverrides(t *testing.T) {
	cmd.ResetFlags()
	cmd.SetUserAgentForTest("flag-agent/3.0")
	cmd.SetTimeoutForTest(2 * time.Second)
	cmd.SetMaxAttemptForTest(9)
	cmd.SetNoCacheForTest(true)

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.UserAgent() != "flag-agent/3.0" {
		t.Errorf("Expected UserAgent 'flag-agent/3.0', got %s", cfg.UserAgent())
	}
	if cfg.Timeout() != 2*time.Second {
		t.Errorf("Expected Timeout 2s, got %v", cfg.Timeout())
	}
	if cfg.MaxAttempt() != 9 {
		t.Errorf("Expected MaxAttempt 9, got %d", cfg.MaxAttempt())
	}
	if cfg.CacheEnabled() {
		t.Error("Expected CacheEnabled false when --no-cache is set")
	}
}

// TestInitConfigFromFile tests that a config file takes precedence
func TestInitConfigFromFile(t *testing.T) {
	cmd.ResetFlags()

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"userAgent": "file-agent/1.0", "maxAttempt": 6}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	cmd.SetConfigFileForTest(path)

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.UserAgent() != "file-agent/1.0" {
		t.Errorf("Expected UserAgent 'file-agent/1.0', got %s", cfg.UserAgent())
	}
	if cfg.MaxAttempt() != 6 {
		t.Errorf("Expected MaxAttempt 6, got %d", cfg.MaxAttempt())
	}
}

// TestInitConfigFromMissingFile tests the error path for a bad config path
func TestInitConfigFromMissingFile(t *testing.T) {
	cmd.ResetFlags()
	cmd.SetConfigFileForTest(filepath.Join(t.TempDir(), "no-such-config.json"))

	_, err := cmd.InitConfigWithError()
	if err == nil {
		t.Fatal("Expected error for missing config file, got nil")
	}
	if !errors.Is(err, config.ErrFileDoesNotExist) {
		t.Errorf("Expected ErrFileDoesNotExist, got: %v", err)
	}
}

func TestLoadRulesetFromStdin(t *testing.T) {
	cmd.ResetFlags()

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	stdin := strings.NewReader("User-agent: *\nDisallow: /private\n")
	ruleset, err := cmd.LoadRuleset(cfg, stdin)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if ruleset.CanFetch("Bot", "/private/x") {
		t.Error("expected /private/x to be disallowed")
	}
}

func TestLoadRulesetFromFile(t *testing.T) {
	cmd.ResetFlags()

	path := filepath.Join(t.TempDir(), "robots.txt")
	if err := os.WriteFile(path, []byte("User-agent: *\nDisallow: /secret\n"), 0o644); err != nil {
		t.Fatalf("failed to write robots file: %v", err)
	}
	cmd.SetRobotsFileForTest(path)

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ruleset, err := cmd.LoadRuleset(cfg, strings.NewReader(""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if ruleset.CanFetch("Bot", "/secret/page") {
		t.Error("expected /secret/page to be disallowed")
	}
}

func TestLoadRulesetFromURL(t *testing.T) {
	cmd.ResetFlags()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /admin\n"))
	}))
	defer server.Close()

	cmd.SetRobotsURLForTest(server.URL)

	cfg, err := cmd.InitConfigWithError()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ruleset, err := cmd.LoadRuleset(cfg, strings.NewReader(""))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if ruleset.CanFetch("Bot", "/admin/panel") {
		t.Error("expected /admin/panel to be disallowed")
	}
}

func TestReportDecisionsOutput(t *testing.T) {
	cmd.ResetFlags()

	ruleset := robots.ParseString(`User-agent: *
Disallow: /private
Crawl-delay: 2
Sitemap: https://example.com/sitemap.xml`)

	recorder := metadata.NewRecorder("cli-test")
	robot := robots.NewRobot(&recorder, nil)

	var out bytes.Buffer
	cmd.ReportDecisions(&out, &robot, ruleset, "Bot", []string{"/private/x", "/public"})

	got := out.String()
	if !strings.Contains(got, "deny") || !strings.Contains(got, "/private/x") {
		t.Errorf("expected a deny line for /private/x, got:\n%s", got)
	}
	if !strings.Contains(got, "allow") || !strings.Contains(got, "/public") {
		t.Errorf("expected an allow line for /public, got:\n%s", got)
	}
	if !strings.Contains(got, "crawl-delay: 2s") {
		t.Errorf("expected crawl-delay line, got:\n%s", got)
	}
	if !strings.Contains(got, "https://example.com/sitemap.xml") {
		t.Errorf("expected sitemap line, got:\n%s", got)
	}
	if recorder.DecisionEventCount() != 2 {
		t.Errorf("expected 2 recorded decisions, got %d", recorder.DecisionEventCount())
	}
}
