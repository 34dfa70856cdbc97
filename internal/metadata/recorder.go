package metadata

import (
	"time"
)

/*
Recorder captures structured fetch-policy events.
It must not:
- perform I/O decisions
- affect control flow
- impose a logging backend
Ordering guarantees:
- Events are recorded synchronously in the order they are received.
- Ordering is provided for debuggability, not causality.
*/
type Recorder struct {
	sessionId string

	fetchEvents    []FetchEvent
	decisionEvents []DecisionEvent
	errorRecords   []ErrorRecord
}

func NewRecorder(sessionId string) Recorder {
	return Recorder{
		sessionId: sessionId,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	errorString string,
	attrs []Attribute,
) {
	r.errorRecords = append(r.errorRecords, ErrorRecord{
		packageName: packageName,
		action:      action,
		cause:       cause,
		errorString: errorString,
		observedAt:  observedAt,
		attrs:       attrs,
	})
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	contentHash string,
	fromCache bool,
) {
	r.fetchEvents = append(r.fetchEvents, FetchEvent{
		fetchUrl:    fetchUrl,
		httpStatus:  httpStatus,
		duration:    duration,
		contentType: contentType,
		contentHash: contentHash,
		fromCache:   fromCache,
	})
}

func (r *Recorder) RecordDecision(
	observedAt time.Time,
	agent string,
	path string,
	allowed bool,
	reason string,
) {
	r.decisionEvents = append(r.decisionEvents, DecisionEvent{
		agent:    agent,
		path:     path,
		allowed:  allowed,
		reason:   reason,
		observed: observedAt,
	})
}

// FetchEventCount reports how many fetches were recorded.
// Useful for diagnostics and tests; never for control flow.
func (r *Recorder) FetchEventCount() int {
	return len(r.fetchEvents)
}

// DecisionEventCount reports how many decisions were recorded.
func (r *Recorder) DecisionEventCount() int {
	return len(r.decisionEvents)
}

// ErrorRecordCount reports how many errors were recorded.
func (r *Recorder) ErrorRecordCount() int {
	return len(r.errorRecords)
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		errorString string,
		attrs []Attribute,
	)
	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		contentHash string,
		fromCache bool,
	)
	RecordDecision(
		observedAt time.Time,
		agent string,
		path string,
		allowed bool,
		reason string,
	)
}
