package core

// ScenarioStatus represents the execution status of a scenario or step
type ScenarioStatus int

const (
	StatusPending ScenarioStatus = iota // Not yet started
	StatusRunning                       // Currently executing
	StatusPassed                        // Completed successfully
	StatusFailed                        // A step failed (expected behavior didn't occur)
	StatusSkipped                       // Not executed (previous step failed or run cancelled)
)

// String returns the string representation of ScenarioStatus
func (s ScenarioStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if the status is a final state
func (s ScenarioStatus) IsTerminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusSkipped:
		return true
	default:
		return false
	}
}

// ErrorCategory classifies the type of error for better debugging and reporting
type ErrorCategory int

const (
	ErrCategoryNone        ErrorCategory = iota // No error
	ErrCategoryResolution                       // No candidate locator resolved within budget
	ErrCategoryInteraction                      // Element resolved but interaction failed (stale, blocked)
	ErrCategoryAssertion                        // Explicit verification did not match expectation
	ErrCategoryTimeout                          // Wait condition timed out
	ErrCategorySession                          // Browser session creation/teardown failure
	ErrCategoryConfig                           // Invalid configuration, missing required field
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryResolution:
		return "resolution"
	case ErrCategoryInteraction:
		return "interaction"
	case ErrCategoryAssertion:
		return "assertion"
	case ErrCategoryTimeout:
		return "timeout"
	case ErrCategorySession:
		return "session"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}
