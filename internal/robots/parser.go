package robots

import (
	"strconv"
	"strings"
	"time"
)

/*
Parser

Responsibilities:
- Split raw robots.txt text into lines (any line-ending style)
- Classify each line as a Directive
- Assemble consecutive User-agent headers and their rules into RuleGroups
- Collect global Sitemap URLs

Parsing is total: the format has no syntax errors by design. Malformed
lines, unknown keys, and rules appearing before any User-agent are silently
skipped. Every input string, including the empty string, produces a valid
Ruleset.
*/

// Parse consumes the raw text of a robots.txt document and produces a
// Ruleset. It never fails.
func Parse(content string) Ruleset {
	var rs Ruleset

	var current *RuleGroup
	// inHeader is true while the latest emitted directives form a contiguous
	// run of User-agent lines; further User-agent lines then join the open
	// group instead of starting a new one.
	inHeader := false

	flush := func() {
		if current != nil {
			rs.groups = append(rs.groups, *current)
		}
	}

	for _, raw := range splitLines(content) {
		directive := classifyLine(raw)

		switch directive.Kind {
		case DirectiveUserAgent:
			if current != nil && inHeader {
				current.agents = append(current.agents, directive.Value)
				continue
			}
			flush()
			current = &RuleGroup{agents: []string{directive.Value}}
			inHeader = true

		case DirectiveAllow:
			// Rules before any User-agent have no group to live in
			if current == nil {
				continue
			}
			current.rules = append(current.rules, Rule{Kind: RuleAllow, Pattern: directive.Value})
			inHeader = false

		case DirectiveDisallow:
			if current == nil {
				continue
			}
			// An empty Disallow value is still recorded; the matcher treats
			// it as "disallow nothing"
			current.rules = append(current.rules, Rule{Kind: RuleDisallow, Pattern: directive.Value})
			inHeader = false

		case DirectiveCrawlDelay:
			if current == nil {
				continue
			}
			seconds, err := strconv.ParseFloat(directive.Value, 64)
			if err != nil || seconds < 0 {
				// Unparsable delay: the line is dropped and does not close
				// the header block
				continue
			}
			delay := time.Duration(seconds * float64(time.Second))
			current.crawlDelay = &delay
			inHeader = false

		case DirectiveSitemap:
			// Sitemaps are global, not scoped to a user-agent block
			if directive.Value != "" {
				rs.sitemaps = append(rs.sitemaps, directive.Value)
			}
		}
	}

	flush()

	return rs
}

// classifyLine strips the comment and surrounding whitespace from one raw
// line and tags it. Lines without a "key: value" shape and lines with an
// unrecognized key come back as DirectiveUnknown.
func classifyLine(raw string) Directive {
	line := raw
	if idx := strings.Index(line, "#"); idx != -1 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return Directive{Kind: DirectiveUnknown}
	}

	key, value, found := strings.Cut(line, ":")
	if !found {
		return Directive{Kind: DirectiveUnknown}
	}
	value = strings.TrimSpace(value)

	switch strings.ToLower(strings.TrimSpace(key)) {
	case "user-agent":
		return Directive{Kind: DirectiveUserAgent, Value: value}
	case "allow":
		return Directive{Kind: DirectiveAllow, Value: value}
	case "disallow":
		return Directive{Kind: DirectiveDisallow, Value: value}
	case "crawl-delay":
		return Directive{Kind: DirectiveCrawlDelay, Value: value}
	case "sitemap":
		return Directive{Kind: DirectiveSitemap, Value: value}
	default:
		return Directive{Kind: DirectiveUnknown}
	}
}

// splitLines splits on "\n", "\r\n", or bare "\r".
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}
