package robots

import (
	"strings"
	"time"

	"github.com/rohmanhakim/robots-parser/pkg/urlutil"
)

/*
Matcher

Responsibilities:
- Select the rule group governing a user-agent token
- Evaluate the group's patterns against a target path
- Report crawl-delay for the selected group

Both operations are pure, total functions over an already-parsed Ruleset.

Decision policy (documented deliberately, since implementations differ):
- Group selection is first-match-wins in document order: the first group
  with an exact case-insensitive agent token wins; only when no exact match
  exists does the first wildcard ("*") group apply.
- Within a group, rules are evaluated in document order and the LAST rule
  whose pattern matches decides the outcome. This is not longest-match-wins;
  it reproduces that convention only insofar as files order patterns by
  specificity.
*/

// CanFetch reports whether a crawler identified by agent may fetch target.
// The target may be an absolute URL or a bare path. A crawler with no
// governing group is unconstrained.
func (r Ruleset) CanFetch(agent, target string) bool {
	return r.Decide(agent, target).Allowed
}

// Decide evaluates target for agent and reports the full decision,
// including the reason and the governing group's crawl-delay.
func (r Ruleset) Decide(agent, target string) Decision {
	decision := Decision{
		Target:  target,
		Path:    urlutil.MatchTarget(target),
		Allowed: true,
	}

	group := r.selectGroup(agent)
	if group == nil {
		if len(r.groups) == 0 {
			decision.Reason = EmptyRuleSet
		} else {
			decision.Reason = UserAgentNotMatched
		}
		return decision
	}

	decision.CrawlDelay = group.CrawlDelay()

	allowed, matched := group.evaluate(decision.Path)
	decision.Allowed = allowed
	switch {
	case !matched:
		decision.Reason = NoMatchingRules
	case allowed:
		decision.Reason = AllowedByRobots
	default:
		decision.Reason = DisallowedByRobots
	}

	return decision
}

// CrawlDelay returns the crawl-delay of the group governing agent, or nil
// when the group has none or no group governs the agent. There is no
// inheritance: an exact-agent group without a delay does not fall back to
// the wildcard group's delay.
func (r Ruleset) CrawlDelay(agent string) *time.Duration {
	group := r.selectGroup(agent)
	if group == nil {
		return nil
	}
	return group.CrawlDelay()
}

// selectGroup picks the group governing agent: first exact case-insensitive
// token match in document order, then the first wildcard group, else nil.
func (r Ruleset) selectGroup(agent string) *RuleGroup {
	for i := range r.groups {
		for _, token := range r.groups[i].agents {
			if strings.EqualFold(token, agent) {
				return &r.groups[i]
			}
		}
	}

	for i := range r.groups {
		for _, token := range r.groups[i].agents {
			if token == WildcardAgent {
				return &r.groups[i]
			}
		}
	}

	return nil
}

// evaluate applies the group's rules to path in document order and reports
// the outcome of the last matching rule. No match means the path is allowed.
func (g *RuleGroup) evaluate(path string) (allowed bool, matched bool) {
	allowed = true

	for _, rule := range g.rules {
		if rule.Kind == RuleDisallow && rule.Pattern == "" {
			// "Disallow:" with no value disallows nothing
			continue
		}
		if patternMatches(rule.Pattern, path) {
			matched = true
			allowed = rule.Kind == RuleAllow
		}
	}

	return allowed, matched
}
