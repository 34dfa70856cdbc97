package failure

type Severity int

// caller control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

// ClassifiedError is the error contract shared by every component.
// Callers derive control flow from Severity, never from error text.
type ClassifiedError interface {
	error
	Severity() Severity
}
