package robots

import (
	"time"
)

// Core data model.
//
// A Ruleset is built once by Parse and is read-only afterwards: every
// accessor returns a copy, so a Ruleset may be queried concurrently by any
// number of callers without synchronization.

// DirectiveKind tags one classified robots.txt line. The set is closed:
// the parser dispatches over these variants and nothing else.
type DirectiveKind int

const (
	DirectiveUnknown DirectiveKind = iota
	DirectiveUserAgent
	DirectiveAllow
	DirectiveDisallow
	DirectiveCrawlDelay
	DirectiveSitemap
)

// Directive is a single parsed line: its kind plus the trimmed value that
// followed the colon. Unknown and malformed lines carry no value.
type Directive struct {
	Kind  DirectiveKind
	Value string
}

// RuleKind distinguishes allow from disallow entries inside a group.
type RuleKind int

const (
	RuleAllow RuleKind = iota
	RuleDisallow
)

// Rule is one Allow/Disallow entry. The pattern is kept exactly as written
// in the file; it may contain "*" wildcards and a trailing "$" anchor.
type Rule struct {
	Kind    RuleKind
	Pattern string
}

// RuleGroup is one block of directives headed by one or more consecutive
// User-agent lines. Agent tokens keep insertion order and are not
// deduplicated. A group with zero rules is valid and means "no restriction
// stated".
type RuleGroup struct {
	agents     []string
	rules      []Rule
	crawlDelay *time.Duration
}

// Agents returns a copy of the group's agent tokens in document order.
func (g RuleGroup) Agents() []string {
	result := make([]string, len(g.agents))
	copy(result, g.agents)
	return result
}

// Rules returns a copy of the group's allow/disallow entries in document order.
func (g RuleGroup) Rules() []Rule {
	result := make([]Rule, len(g.rules))
	copy(result, g.rules)
	return result
}

// CrawlDelay returns the group's crawl delay if set, or nil.
func (g RuleGroup) CrawlDelay() *time.Duration {
	if g.crawlDelay == nil {
		return nil
	}
	delay := *g.crawlDelay
	return &delay
}

// Ruleset is the parse result: ordered rule groups plus the global sitemap
// URLs (insertion order preserved, duplicates preserved).
type Ruleset struct {
	groups   []RuleGroup
	sitemaps []string
}

// Groups returns a copy of the rule groups in document order.
func (r Ruleset) Groups() []RuleGroup {
	result := make([]RuleGroup, len(r.groups))
	copy(result, r.groups)
	return result
}

// Sitemaps returns a copy of the sitemap URLs in document order.
func (r Ruleset) Sitemaps() []string {
	result := make([]string, len(r.sitemaps))
	copy(result, r.sitemaps)
	return result
}

// IsEmpty returns true if the ruleset contains no groups and no sitemaps.
func (r Ruleset) IsEmpty() bool {
	return len(r.groups) == 0 && len(r.sitemaps) == 0
}

// WildcardAgent is the group token meaning "applies to any crawler with no
// more specific group".
const WildcardAgent = "*"

type DecisionReason string

const (
	AllowedByRobots     DecisionReason = "allowed_by_robots"
	DisallowedByRobots  DecisionReason = "disallowed_by_robots"
	UserAgentNotMatched DecisionReason = "user_agent_not_matched"
	EmptyRuleSet        DecisionReason = "empty_rule_set"
	NoMatchingRules     DecisionReason = "no_matching_rules"
)

type Decision struct {
	// The target as given by the caller (absolute URL or bare path)
	Target string

	// The path the rules were evaluated against
	Path string

	Allowed bool

	// Why this decision was made (for logging/debugging)
	Reason DecisionReason

	// Optional delay override (robots crawl-delay)
	CrawlDelay *time.Duration
}
