package metadata

import (
	"testing"
	"time"
)

func TestRecorderAppendsInOrder(t *testing.T) {
	recorder := NewRecorder("session-1")

	recorder.RecordFetch("https://example.com/robots.txt", 200, 120*time.Millisecond, "text/plain", "abc123", false)
	recorder.RecordFetch("https://example.com/robots.txt", 200, 0, "text/plain", "abc123", true)

	if recorder.FetchEventCount() != 2 {
		t.Errorf("expected 2 fetch events, got %d", recorder.FetchEventCount())
	}
}

func TestRecorderDecisions(t *testing.T) {
	recorder := NewRecorder("session-1")

	recorder.RecordDecision(time.Now(), "Bot", "/private/x", false, "disallowed_by_robots")
	recorder.RecordDecision(time.Now(), "Bot", "/public", true, "no_matching_rules")

	if recorder.DecisionEventCount() != 2 {
		t.Errorf("expected 2 decision events, got %d", recorder.DecisionEventCount())
	}
	if recorder.ErrorRecordCount() != 0 {
		t.Errorf("expected 0 error records, got %d", recorder.ErrorRecordCount())
	}
}

func TestRecorderErrors(t *testing.T) {
	recorder := NewRecorder("session-1")

	recorder.RecordError(
		time.Now(),
		"robots",
		"Robot.ParseURL",
		CauseNetworkFailure,
		"fetch failed",
		[]Attribute{NewAttr(AttrURL, "https://example.com")},
	)

	if recorder.ErrorRecordCount() != 1 {
		t.Errorf("expected 1 error record, got %d", recorder.ErrorRecordCount())
	}
}
