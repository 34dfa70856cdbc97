package robots_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/robots-parser/internal/metadata"
	"github.com/rohmanhakim/robots-parser/internal/robots"
	"github.com/rohmanhakim/robots-parser/internal/robots/cache"
	"github.com/rohmanhakim/robots-parser/pkg/failure"
	"github.com/rohmanhakim/robots-parser/pkg/retry"
	"github.com/rohmanhakim/robots-parser/pkg/timeutil"
)

func fastRetryParam(maxAttempts int) retry.RetryParam {
	backoff := timeutil.NewBackoffParam(time.Millisecond, 2.0, 5*time.Millisecond)
	return retry.NewRetryParam(0, 42, maxAttempts, backoff)
}

func newTestRobot(c cache.Cache) (robots.Robot, *metadata.Recorder) {
	recorder := metadata.NewRecorder("robot-test")
	fetcher := robots.NewRobotsFetcherWithClient(&recorder, "robots-parser-test/1.0", &http.Client{Timeout: 5 * time.Second}, c)
	return robots.NewRobot(&recorder, fetcher), &recorder
}

func TestParseString(t *testing.T) {
	rs := robots.ParseString("User-agent: *\nDisallow: /private\n")

	assert.False(t, rs.CanFetch("Bot", "/private/x"))
	assert.True(t, rs.CanFetch("Bot", "/public"))
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robots.txt")
	require.NoError(t, os.WriteFile(path, []byte("User-agent: *\nDisallow: /secret\n"), 0o644))

	rs, err := robots.ParseFile(path)
	require.Nil(t, err)
	assert.False(t, rs.CanFetch("Bot", "/secret/page"))
}

func TestParseFileMissing(t *testing.T) {
	rs, err := robots.ParseFile(filepath.Join(t.TempDir(), "no-such-file.txt"))

	require.NotNil(t, err)
	assert.Equal(t, failure.SeverityFatal, err.Severity())
	assert.True(t, rs.IsEmpty())
}

func TestParseURLSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /admin\n"))
	}))
	defer server.Close()

	robot, _ := newTestRobot(nil)

	rs, err := robot.ParseURL(context.Background(), server.URL+"/some/deep/page", fastRetryParam(3))
	require.Nil(t, err)
	assert.False(t, rs.CanFetch("Bot", "/admin/panel"))
	assert.True(t, rs.CanFetch("Bot", "/docs"))
}

func TestParseURLInvalidInput(t *testing.T) {
	robot, recorder := newTestRobot(nil)

	_, err := robot.ParseURL(context.Background(), "not a url", fastRetryParam(3))
	require.NotNil(t, err)
	assert.Equal(t, failure.SeverityFatal, err.Severity())
	assert.Equal(t, 1, recorder.ErrorRecordCount())
}

func TestParseURLMissingRobotsIsUnrestricted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	robot, _ := newTestRobot(nil)

	rs, err := robot.ParseURL(context.Background(), server.URL, fastRetryParam(3))
	require.Nil(t, err)
	assert.True(t, rs.IsEmpty())
	assert.True(t, rs.CanFetch("Bot", "/anything"))
}

func TestParseURLRetriesTransientFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("User-agent: *\nDisallow: /flaky\n"))
	}))
	defer server.Close()

	robot, _ := newTestRobot(nil)

	rs, err := robot.ParseURL(context.Background(), server.URL, fastRetryParam(5))
	require.Nil(t, err)
	assert.Equal(t, 3, attempts)
	assert.False(t, rs.CanFetch("Bot", "/flaky/x"))
}

func TestParseURLExhaustsRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	robot, _ := newTestRobot(nil)

	_, err := robot.ParseURL(context.Background(), server.URL, fastRetryParam(3))
	require.NotNil(t, err)
	assert.Equal(t, failure.SeverityRecoverable, err.Severity())
	assert.Equal(t, 3, attempts)
}

func TestParseURLUsesCache(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("User-agent: *\nDisallow: /cached\n"))
	}))
	defer server.Close()

	robot, _ := newTestRobot(cache.NewMemoryCache())

	_, err := robot.ParseURL(context.Background(), server.URL, fastRetryParam(3))
	require.Nil(t, err)

	rs, err := robot.ParseURL(context.Background(), server.URL, fastRetryParam(3))
	require.Nil(t, err)
	assert.Equal(t, 1, hits)
	assert.False(t, rs.CanFetch("Bot", "/cached/x"))
}

func TestDecideRecordsToSink(t *testing.T) {
	robot, recorder := newTestRobot(nil)
	rs := robots.ParseString("User-agent: *\nDisallow: /private\n")

	decision := robot.Decide(rs, "Bot", "/private/x")
	assert.False(t, decision.Allowed)
	assert.Equal(t, robots.DisallowedByRobots, decision.Reason)

	decision = robot.Decide(rs, "Bot", "/public")
	assert.True(t, decision.Allowed)
	assert.Equal(t, robots.NoMatchingRules, decision.Reason)

	assert.Equal(t, 2, recorder.DecisionEventCount())
}

func TestRobotCanFetch(t *testing.T) {
	robot, _ := newTestRobot(nil)
	rs := robots.ParseString("User-agent: *\nDisallow: /private\nAllow: /private/public\n")

	assert.False(t, robot.CanFetch(rs, "Bot", "/private/x"))
	assert.True(t, robot.CanFetch(rs, "Bot", "/private/public/x"))
}
