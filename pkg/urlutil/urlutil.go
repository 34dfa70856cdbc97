package urlutil

import (
	"net/url"
	"strings"
)

// MatchTarget reduces a fetch target to the string robots.txt path patterns
// are matched against.
//
// Absolute URLs ("https://example.com/a%7Eb?x=1") are reduced to their
// percent-decoded path joined with the raw query ("/a~b?x=1"). Anything
// else is treated as an already-extracted path and returned verbatim, so
// callers can pass either form.
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Case-preserving: robots.txt path matching is case-sensitive
func MatchTarget(target string) string {
	if !strings.Contains(target, "://") {
		return target
	}

	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return target
	}

	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}

	return path
}
