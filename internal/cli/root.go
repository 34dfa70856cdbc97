package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/robots-parser/internal/build"
	"github.com/rohmanhakim/robots-parser/internal/config"
	"github.com/rohmanhakim/robots-parser/internal/metadata"
	"github.com/rohmanhakim/robots-parser/internal/robots"
	"github.com/rohmanhakim/robots-parser/internal/robots/cache"
	"github.com/rohmanhakim/robots-parser/pkg/limiter"
	"github.com/rohmanhakim/robots-parser/pkg/retry"
	"github.com/rohmanhakim/robots-parser/pkg/timeutil"
)

var (
	cfgFile    string
	robotsURL  string
	robotsFile string
	agent      string
	paths      []string
	userAgent  string
	timeout    time.Duration
	maxAttempt int
	noCache    bool
	cacheDir   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "robots-parser",
	Short: "A robots.txt parser and fetch-permission checker.",
	Long: `robots-parser reads a robots.txt document from a URL, a local file, or
standard input and reports whether the given user agent may fetch each of the
requested paths, along with the crawl delay and sitemap URLs the document
declares.`,
	Version: build.FullVersion(),
	Run: func(cmd *cobra.Command, args []string) {
		if len(paths) == 0 {
			fmt.Fprintf(os.Stderr, "Error: --path is required. Please provide at least one path to check.\n")
			cmd.Usage()
			os.Exit(1)
		}

		cfg := InitConfig()

		ruleset, err := LoadRuleset(cfg, os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}

		recorder := metadata.NewRecorder(fmt.Sprintf("cli-%d", time.Now().UnixNano()))
		robot := robots.NewRobot(&recorder, nil)

		ReportDecisions(os.Stdout, &robot, ruleset, agent, paths)
	},
}

// LoadRuleset acquires the robots.txt document from whichever source the
// flags selected. Precedence: URL, then file, then stdin.
func LoadRuleset(cfg config.Config, stdin io.Reader) (robots.Ruleset, error) {
	if robotsURL != "" {
		recorder := metadata.NewRecorder(fmt.Sprintf("fetch-%d", time.Now().UnixNano()))

		var robotsCache cache.Cache
		if cfg.CacheEnabled() {
			if cfg.CacheDir() != "" {
				diskCache, cacheErr := cache.NewDiskCache(cfg.CacheDir())
				if cacheErr != nil {
					return robots.Ruleset{}, fmt.Errorf("opening cache dir %s: %w", cfg.CacheDir(), cacheErr)
				}
				robotsCache = diskCache
			} else {
				robotsCache = cache.NewMemoryCache()
			}
		}

		fetcher := robots.NewRobotsFetcher(&recorder, cfg.UserAgent(), cfg.Timeout(), robotsCache)
		fetcher.SetRateLimiter(rateLimiterFromConfig(cfg))
		robot := robots.NewRobot(&recorder, fetcher)

		ruleset, fetchErr := robot.ParseURL(context.Background(), robotsURL, retryParamFromConfig(cfg))
		if fetchErr != nil {
			return robots.Ruleset{}, fmt.Errorf("fetching %s: %w", robotsURL, fetchErr)
		}
		return ruleset, nil
	}

	if robotsFile != "" {
		ruleset, readErr := robots.ParseFile(robotsFile)
		if readErr != nil {
			return robots.Ruleset{}, fmt.Errorf("reading %s: %w", robotsFile, readErr)
		}
		return ruleset, nil
	}

	content, err := io.ReadAll(stdin)
	if err != nil {
		return robots.Ruleset{}, fmt.Errorf("reading stdin: %w", err)
	}
	return robots.ParseString(string(content)), nil
}

func rateLimiterFromConfig(cfg config.Config) limiter.RateLimiter {
	rateLimiter := limiter.NewConcurrentRateLimiter()
	rateLimiter.SetJitter(cfg.Jitter())
	rateLimiter.SetRandomSeed(cfg.RandomSeed())
	rateLimiter.SetBackoffParam(timeutil.NewBackoffParam(
		cfg.BackoffInitialDuration(),
		cfg.BackoffMultiplier(),
		cfg.BackoffMaxDuration(),
	))
	return rateLimiter
}

func retryParamFromConfig(cfg config.Config) retry.RetryParam {
	backoff := timeutil.NewBackoffParam(
		cfg.BackoffInitialDuration(),
		cfg.BackoffMultiplier(),
		cfg.BackoffMaxDuration(),
	)
	return retry.NewRetryParam(cfg.Jitter(), cfg.RandomSeed(), cfg.MaxAttempt(), backoff)
}

// ReportDecisions prints one allow/deny line per path, then the crawl delay
// and sitemaps the document declares for the agent.
func ReportDecisions(w io.Writer, robot *robots.Robot, ruleset robots.Ruleset, agent string, paths []string) {
	for _, path := range paths {
		decision := robot.Decide(ruleset, agent, path)

		verdict := "allow"
		if !decision.Allowed {
			verdict = "deny"
		}
		fmt.Fprintf(w, "%-5s %s (%s)\n", verdict, path, decision.Reason)
	}

	if delay := ruleset.CrawlDelay(agent); delay != nil {
		fmt.Fprintf(w, "crawl-delay: %v\n", *delay)
	}

	if sitemaps := ruleset.Sitemaps(); len(sitemaps) > 0 {
		fmt.Fprintf(w, "sitemaps: %s\n", strings.Join(sitemaps, ", "))
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&robotsURL, "robots-url", "", "fetch robots.txt from this site's host")
	rootCmd.PersistentFlags().StringVar(&robotsFile, "robots-file", "", "read robots.txt from a local file")
	rootCmd.PersistentFlags().StringVar(&agent, "agent", "*", "user agent token to evaluate rules for")
	rootCmd.PersistentFlags().StringArrayVar(&paths, "path", []string{}, "path or URL to check (can be repeated)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for the HTTP request header")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for the robots.txt fetch")
	rootCmd.PersistentFlags().IntVar(&maxAttempt, "max-attempt", 0, "maximum fetch attempts for transient failures")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable the per-host robots.txt cache")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "persist fetched robots.txt under this directory")
}

// InitConfig reads in config file and flag overrides if set.
func InitConfig() config.Config {
	cfg, err := InitConfigWithError()
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError reads in config file and flag overrides if set,
// returning any errors. This makes it easier to test error cases.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	// Start with default config and apply overrides using method chaining
	configBuilder := config.WithDefault()

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if maxAttempt > 0 {
		configBuilder = configBuilder.WithMaxAttempt(maxAttempt)
	}

	if noCache {
		configBuilder = configBuilder.WithCacheEnabled(false)
	}

	if cacheDir != "" {
		configBuilder = configBuilder.WithCacheDir(cacheDir)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ResetFlags() {
	cfgFile = ""
	robotsURL = ""
	robotsFile = ""
	agent = "*"
	paths = []string{}
	userAgent = ""
	timeout = 0
	maxAttempt = 0
	noCache = false
	cacheDir = ""
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetRobotsURLForTest(u string) {
	robotsURL = u
}

func SetRobotsFileForTest(path string) {
	robotsFile = path
}

func SetAgentForTest(a string) {
	agent = a
}

func SetPathsForTest(p []string) {
	paths = p
}

func SetUserAgentForTest(ua string) {
	userAgent = ua
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetMaxAttemptForTest(attempts int) {
	maxAttempt = attempts
}

func SetNoCacheForTest(disable bool) {
	noCache = disable
}

func SetCacheDirForTest(dir string) {
	cacheDir = dir
}
