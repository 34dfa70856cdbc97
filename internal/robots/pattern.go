package robots

import "strings"

// patternMatches reports whether a robots.txt path pattern matches path.
//
// The pattern is a sequence of literal segments separated by "*" wildcards;
// each wildcard absorbs any run of characters, including the empty run. A
// trailing "$" anchors the match to the end of the path; without it the
// pattern only needs to match a prefix of the path. Matching always starts
// at position 0 of the path and is case-sensitive.
//
// The empty pattern matches any path at the prefix level, and only the
// empty path when anchored.
func patternMatches(pattern, path string) bool {
	anchored := strings.HasSuffix(pattern, "$")
	if anchored {
		pattern = strings.TrimSuffix(pattern, "$")
	}

	segments := strings.Split(pattern, "*")

	first := segments[0]
	if !strings.HasPrefix(path, first) {
		return false
	}
	rest := path[len(first):]
	middle := segments[1:]

	if anchored {
		if len(middle) == 0 {
			// No wildcard: the literal must consume the whole path
			return rest == ""
		}

		// The final segment must sit at the very end of the path; the
		// wildcard before it absorbs whatever remains after the middle
		// segments are found.
		last := middle[len(middle)-1]
		middle = middle[:len(middle)-1]

		for _, segment := range middle {
			_, after, found := strings.Cut(rest, segment)
			if !found {
				return false
			}
			rest = after
		}

		return strings.HasSuffix(rest, last)
	}

	// Prefix semantics: once every segment is found in order, the remainder
	// of the path is unconstrained. Taking the leftmost occurrence of each
	// segment never rules out a match.
	for _, segment := range middle {
		_, after, found := strings.Cut(rest, segment)
		if !found {
			return false
		}
		rest = after
	}

	return true
}
