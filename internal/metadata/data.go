package metadata

import (
	"time"
)

/*
Metadata Collected
- Fetch timestamps and HTTP status codes
- Content hashes of fetched robots.txt documents
- Fetch decisions and the reason each was made

Logging Goals
- Debuggable fetch-policy behavior
- Post-run auditability
- Failure diagnostics

Determinism guarantees:
 - Metadata does not affect control flow
 - Errors do not alter decisions
 - Output is stable given identical inputs

Metadata is write-only.
No component may read metadata to influence fetch decisions.
*/

type FetchEvent struct {
	fetchUrl    string
	httpStatus  int
	duration    time.Duration
	contentType string
	contentHash string
	fromCache   bool
}

type DecisionEvent struct {
	agent    string
	path     string
	allowed  bool
	reason   string
	observed time.Time
}

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause is for observability only.
	 - It must never be used to derive retry, continuation, or abort decisions.
	 - Component packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

Meaning:
  - The failure does not map cleanly to any known category.
  - Used as a safe fallback.

# CauseNetworkFailure

Meaning:
  - Failure caused by network transport or remote availability.

Examples:
  - TCP timeouts
  - DNS resolution failures
  - robots.txt fetch timeout
  - HTTP 5xx when fetching robots.txt

# CausePolicyDisallow

Meaning:
  - The remote side refused service by explicit policy.

Examples:
  - HTTP 429 rate limiting on the robots.txt fetch

# CauseStorageFailure

Meaning:
  - Failure while reading a local robots.txt document.

Examples:
  - File not found
  - Read permission errors

# CauseInvalidInput

Meaning:
  - The caller supplied input the component cannot act on.

Examples:
  - A robots URL without scheme or host
*/
const (
	CauseUnknown = iota
	CauseNetworkFailure
	CausePolicyDisallow
	CauseStorageFailure
	CauseInvalidInput
)

type ErrorRecord struct {
	packageName string
	action      string
	cause       ErrorCause
	errorString string
	observedAt  time.Time
	attrs       []Attribute
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrTime       AttributeKey = "time"
	AttrURL        AttributeKey = "url"
	AttrHost       AttributeKey = "host"
	AttrPath       AttributeKey = "path"
	AttrAgent      AttributeKey = "agent"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrHash       AttributeKey = "hash"
)
