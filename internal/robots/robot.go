package robots

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rohmanhakim/robots-parser/internal/metadata"
	"github.com/rohmanhakim/robots-parser/pkg/failure"
	"github.com/rohmanhakim/robots-parser/pkg/fileutil"
	"github.com/rohmanhakim/robots-parser/pkg/retry"
)

/*
Robot

The convenience entry point over the core: it acquires raw robots.txt text
from a literal string, a local file, or a URL, funnels all three into the
same Parse call, and evaluates fetch decisions with observability attached.

Acquisition failures (network, filesystem) are classified errors and are
never conflated with an empty ruleset: a ruleset built from an empty or
garbage document is legitimate and simply grants unconstrained access.
*/

type Robot struct {
	metadataSink metadata.MetadataSink
	fetcher      *RobotsFetcher
}

func NewRobot(metadataSink metadata.MetadataSink, fetcher *RobotsFetcher) Robot {
	return Robot{
		metadataSink: metadataSink,
		fetcher:      fetcher,
	}
}

// ParseString builds a Ruleset from literal robots.txt text. It cannot fail.
func ParseString(text string) Ruleset {
	return Parse(text)
}

// ParseFile reads a local robots.txt document and parses it.
func ParseFile(path string) (Ruleset, failure.ClassifiedError) {
	content, err := fileutil.ReadTextFile(path)
	if err != nil {
		return Ruleset{}, err
	}
	return Parse(content), nil
}

// ParseURL fetches the robots.txt of rawURL's host and parses it, retrying
// transient fetch failures per retryParam. rawURL may be any URL on the
// host; only its scheme and host are used.
func (r *Robot) ParseURL(ctx context.Context, rawURL string, retryParam retry.RetryParam) (Ruleset, failure.ClassifiedError) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		robotsErr := &RobotsError{
			Message:   fmt.Sprintf("robots URL %q has no scheme or host", rawURL),
			Retryable: false,
			Cause:     ErrCausePreFetchFailure,
		}
		r.recordError("Robot.ParseURL", robotsErr, rawURL)
		return Ruleset{}, robotsErr
	}

	result, fetchErr := retry.Retry(retryParam, func() (RobotsFetchResult, failure.ClassifiedError) {
		res, robotsErr := r.fetcher.Fetch(ctx, u.Scheme, u.Host)
		if robotsErr != nil {
			return RobotsFetchResult{}, robotsErr
		}
		return res, nil
	})
	if fetchErr != nil {
		if robotsErr, ok := fetchErr.(*RobotsError); ok {
			r.recordError("Robot.ParseURL", robotsErr, rawURL)
		}
		return Ruleset{}, fetchErr
	}

	return result.Ruleset, nil
}

// Decide evaluates whether agent may fetch target under ruleset and records
// the decision.
func (r *Robot) Decide(ruleset Ruleset, agent, target string) Decision {
	decision := ruleset.Decide(agent, target)

	if r.metadataSink != nil {
		r.metadataSink.RecordDecision(
			time.Now(),
			agent,
			decision.Path,
			decision.Allowed,
			string(decision.Reason),
		)
	}

	return decision
}

// CanFetch is the boolean shortcut over Decide.
func (r *Robot) CanFetch(ruleset Ruleset, agent, target string) bool {
	return r.Decide(ruleset, agent, target).Allowed
}

func (r *Robot) recordError(action string, robotsErr *RobotsError, rawURL string) {
	if r.metadataSink == nil {
		return
	}
	r.metadataSink.RecordError(
		time.Now(),
		"robots",
		action,
		mapRobotsErrorToMetadataCause(robotsErr),
		robotsErr.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrURL, rawURL),
		},
	)
}
