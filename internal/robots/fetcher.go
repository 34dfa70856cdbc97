package robots

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rohmanhakim/robots-parser/internal/metadata"
	"github.com/rohmanhakim/robots-parser/internal/robots/cache"
	"github.com/rohmanhakim/robots-parser/pkg/hashutil"
	"github.com/rohmanhakim/robots-parser/pkg/limiter"
)

/*
RobotsFetcher

Responsibilities:
- Fetch robots.txt per host using net/http
- Hand the raw text to the parser and return the resulting Ruleset
- Handle HTTP status codes: a missing robots.txt (4xx) is not an error,
  it means the host states no restrictions
- Cache fetched results using the provided Cache implementation

The fetcher only acquires text. It does not make decisions about URL
permissions; that is the matcher's job.
*/

// maxRobotsSize caps how much of a robots.txt body is read (500 KiB).
const maxRobotsSize = 500 * 1024

// RobotsFetcher fetches and parses robots.txt files from hosts.
type RobotsFetcher struct {
	httpClient   *http.Client
	userAgent    string
	cache        cache.Cache
	metadataSink metadata.MetadataSink
	rateLimiter  limiter.RateLimiter
}

// RobotsFetchResult represents the result of fetching a robots.txt file.
type RobotsFetchResult struct {
	Ruleset     Ruleset
	RawContent  string
	FetchedAt   time.Time
	SourceURL   string
	HTTPStatus  int
	ContentType string
	ContentHash string
	FromCache   bool
}

// cachedResult is a serializable representation of RobotsFetchResult for
// cache storage. The raw content is stored and re-parsed on a hit so the
// Ruleset itself never needs to be serialized.
type cachedResult struct {
	RawContent  string    `json:"raw_content"`
	FetchedAt   time.Time `json:"fetched_at"`
	SourceURL   string    `json:"source_url"`
	HTTPStatus  int       `json:"http_status"`
	ContentType string    `json:"content_type"`
	ContentHash string    `json:"content_hash"`
}

// NewRobotsFetcher creates a new RobotsFetcher with the given dependencies.
// The cache parameter is optional - if nil, no caching will be performed.
func NewRobotsFetcher(
	metadataSink metadata.MetadataSink,
	userAgent string,
	timeout time.Duration,
	cache cache.Cache,
) *RobotsFetcher {
	return &RobotsFetcher{
		httpClient:   &http.Client{Timeout: timeout},
		userAgent:    userAgent,
		cache:        cache,
		metadataSink: metadataSink,
	}
}

// NewRobotsFetcherWithClient creates a new RobotsFetcher with a custom HTTP
// client. This is useful for testing.
func NewRobotsFetcherWithClient(
	metadataSink metadata.MetadataSink,
	userAgent string,
	httpClient *http.Client,
	cache cache.Cache,
) *RobotsFetcher {
	return &RobotsFetcher{
		httpClient:   httpClient,
		userAgent:    userAgent,
		cache:        cache,
		metadataSink: metadataSink,
	}
}

// SetRateLimiter attaches a politeness limiter. When set, Fetch waits out
// the host's resolved delay before requesting and feeds fetch outcomes (and
// the parsed crawl-delay) back into it.
func (f *RobotsFetcher) SetRateLimiter(rateLimiter limiter.RateLimiter) {
	f.rateLimiter = rateLimiter
}

// cacheKey generates a cache key for the given scheme and hostname.
func cacheKey(scheme, hostname string) string {
	return fmt.Sprintf("%s://%s/robots.txt", scheme, hostname)
}

func serializeResult(result RobotsFetchResult) (string, error) {
	cached := cachedResult{
		RawContent:  result.RawContent,
		FetchedAt:   result.FetchedAt,
		SourceURL:   result.SourceURL,
		HTTPStatus:  result.HTTPStatus,
		ContentType: result.ContentType,
		ContentHash: result.ContentHash,
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func deserializeResult(data string) (RobotsFetchResult, error) {
	var cached cachedResult
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return RobotsFetchResult{}, err
	}
	return RobotsFetchResult{
		Ruleset:     Parse(cached.RawContent),
		RawContent:  cached.RawContent,
		FetchedAt:   cached.FetchedAt,
		SourceURL:   cached.SourceURL,
		HTTPStatus:  cached.HTTPStatus,
		ContentType: cached.ContentType,
		ContentHash: cached.ContentHash,
		FromCache:   true,
	}, nil
}

// Fetch retrieves and parses the robots.txt file of the given host.
// The hostname should be in the form "example.com" or "example.com:8080".
// The scheme (http/https) must be provided to construct the URL.
// If a cache is configured, it is consulted first and updated after a
// successful fetch.
func (f *RobotsFetcher) Fetch(ctx context.Context, scheme, hostname string) (RobotsFetchResult, *RobotsError) {
	key := cacheKey(scheme, hostname)

	if f.cache != nil {
		if cachedData, found := f.cache.Get(key); found {
			if result, err := deserializeResult(cachedData); err == nil {
				f.recordFetch(result, 0)
				return result, nil
			}
			// A corrupt cache entry falls through to a fresh fetch
		}
	}

	if f.rateLimiter != nil {
		if wait := f.rateLimiter.ResolveDelay(hostname); wait > 0 {
			select {
			case <-ctx.Done():
				return RobotsFetchResult{}, &RobotsError{
					Message:   fmt.Sprintf("context cancelled while waiting to fetch %s: %v", key, ctx.Err()),
					Retryable: false,
					Cause:     ErrCausePreFetchFailure,
				}
			case <-time.After(wait):
			}
		}
	}

	start := time.Now()
	robotsURL := key

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return RobotsFetchResult{}, &RobotsError{
			Message:   fmt.Sprintf("failed to create request: %v", err),
			Retryable: false,
			Cause:     ErrCausePreFetchFailure,
		}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/plain,text/html,*/*")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.notePushback(hostname)
		return RobotsFetchResult{}, &RobotsError{
			Message:   fmt.Sprintf("failed to fetch robots.txt: %v", err),
			Retryable: true,
			Cause:     ErrCauseHttpFetchFailure,
		}
	}
	defer resp.Body.Close()

	var result RobotsFetchResult
	var fetchError *RobotsError

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		result, fetchError = f.parseSuccessfulResponse(resp, robotsURL)

	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		// Redirects are followed by http.Client automatically; reaching
		// here means a redirect loop or too many redirects
		f.notePushback(hostname)
		return RobotsFetchResult{}, &RobotsError{
			Message:   fmt.Sprintf("redirect loop or too many redirects for %s", robotsURL),
			Retryable: true,
			Cause:     ErrCauseHttpTooManyRedirects,
		}

	case resp.StatusCode == http.StatusTooManyRequests:
		f.notePushback(hostname)
		return RobotsFetchResult{}, &RobotsError{
			Message:   fmt.Sprintf("rate limited (429) when fetching %s", robotsURL),
			Retryable: true,
			Cause:     ErrCauseHttpTooManyRequests,
		}

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		// No robots.txt exists: the host states no restrictions.
		// This is a legitimate empty ruleset, never an error.
		result = RobotsFetchResult{
			Ruleset:     Ruleset{},
			FetchedAt:   start,
			SourceURL:   robotsURL,
			HTTPStatus:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
		}

	case resp.StatusCode >= 500:
		f.notePushback(hostname)
		return RobotsFetchResult{}, &RobotsError{
			Message:   fmt.Sprintf("server error (%d) when fetching %s", resp.StatusCode, robotsURL),
			Retryable: true,
			Cause:     ErrCauseHttpServerError,
		}

	default:
		return RobotsFetchResult{}, &RobotsError{
			Message:   fmt.Sprintf("unexpected status code %d for %s", resp.StatusCode, robotsURL),
			Retryable: true,
			Cause:     ErrCauseHttpUnexpectedStatus,
		}
	}

	if fetchError != nil {
		f.notePushback(hostname)
		return RobotsFetchResult{}, fetchError
	}

	f.noteSuccess(hostname, result.Ruleset)

	if f.cache != nil {
		if cachedData, err := serializeResult(result); err == nil {
			f.cache.Put(key, cachedData)
		}
	}

	f.recordFetch(result, time.Since(start))

	return result, nil
}

func (f *RobotsFetcher) parseSuccessfulResponse(resp *http.Response, sourceURL string) (RobotsFetchResult, *RobotsError) {
	limitedReader := io.LimitReader(resp.Body, maxRobotsSize+1)

	content, err := io.ReadAll(limitedReader)
	if err != nil {
		return RobotsFetchResult{}, &RobotsError{
			Message:   fmt.Sprintf("failed to read robots.txt body: %v", err),
			Retryable: true,
			Cause:     ErrCauseReadBodyFailure,
		}
	}

	if len(content) > maxRobotsSize {
		content = content[:maxRobotsSize]
	}

	contentHash, hashErr := hashutil.HashBytes(content, hashutil.HashAlgoBLAKE3)
	if hashErr != nil {
		contentHash = ""
	}

	return RobotsFetchResult{
		Ruleset:     Parse(string(content)),
		RawContent:  string(content),
		FetchedAt:   time.Now(),
		SourceURL:   sourceURL,
		HTTPStatus:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		ContentHash: contentHash,
	}, nil
}

// notePushback tells the limiter the host pushed back so subsequent
// attempts wait longer.
func (f *RobotsFetcher) notePushback(hostname string) {
	if f.rateLimiter == nil {
		return
	}
	f.rateLimiter.MarkLastFetchAsNow(hostname)
	f.rateLimiter.Backoff(hostname)
}

// noteSuccess clears any backoff for the host and registers the crawl-delay
// its robots.txt declares for our user agent.
func (f *RobotsFetcher) noteSuccess(hostname string, ruleset Ruleset) {
	if f.rateLimiter == nil {
		return
	}
	f.rateLimiter.MarkLastFetchAsNow(hostname)
	f.rateLimiter.ResetBackoff(hostname)
	if delay := ruleset.CrawlDelay(f.userAgent); delay != nil {
		f.rateLimiter.SetCrawlDelay(hostname, *delay)
	}
}

func (f *RobotsFetcher) recordFetch(result RobotsFetchResult, duration time.Duration) {
	if f.metadataSink == nil {
		return
	}
	f.metadataSink.RecordFetch(
		result.SourceURL,
		result.HTTPStatus,
		duration,
		result.ContentType,
		result.ContentHash,
		result.FromCache,
	)
}

func (f *RobotsFetcher) UserAgent() string {
	return f.userAgent
}

func (f *RobotsFetcher) HttpClient() *http.Client {
	return f.httpClient
}

func (f *RobotsFetcher) Cache() cache.Cache {
	return f.cache
}
