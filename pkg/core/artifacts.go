// Package core provides the execution model types for authflow-runner.
package core

import (
	"fmt"
	"strings"
	"time"
)

// Artifact represents a debug artifact captured around a failure
type Artifact struct {
	Kind        string    `json:"kind"`        // failure, step_failure, page_source, console_log
	ContentType string    `json:"contentType"` // MIME type: image/png, text/html, text/plain
	Path        string    `json:"path"`        // File path relative to the reports directory
	Scenario    string    `json:"scenario"`    // Originating scenario name
	Step        string    `json:"step,omitempty"`
	CapturedAt  time.Time `json:"capturedAt"`
	Body        []byte    `json:"-"` // In-memory content (not serialized to JSON)
}

// Artifact kinds
const (
	ArtifactScreenshot  = "failure"
	ArtifactStepFailure = "step_failure"
	ArtifactPageSource  = "page_source"
	ArtifactConsoleLog  = "console_log"
)

// Common content types
const (
	ContentTypePNG  = "image/png"
	ContentTypeHTML = "text/html"
	ContentTypeText = "text/plain"
)

// ArtifactFileName builds the durable name for a captured artifact:
// <kind>_<scenario-or-step-name>_<unix-timestamp>.<ext>. Names are
// sanitized so scenario titles with spaces stay filesystem-safe.
func ArtifactFileName(kind, name string, ts time.Time, ext string) string {
	return fmt.Sprintf("%s_%s_%d.%s", kind, sanitizeName(name), ts.Unix(), ext)
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ArtifactConfig controls when and what artifacts are captured
type ArtifactConfig struct {
	// What to capture on scenario failure
	Screenshot bool `yaml:"screenshot" json:"screenshot"` // Default: true
	PageSource bool `yaml:"pageSource" json:"pageSource"` // Default: false (scenario level)
	ConsoleLog bool `yaml:"consoleLog" json:"consoleLog"` // Default: false (verbose)

	// Per-step page source on step failure for finer post-mortem
	StepPageSource bool `yaml:"stepPageSource" json:"stepPageSource"` // Default: true
}

// DefaultArtifactConfig returns sensible defaults for artifact capture
func DefaultArtifactConfig() ArtifactConfig {
	return ArtifactConfig{
		Screenshot:     true,
		PageSource:     false,
		ConsoleLog:     false,
		StepPageSource: true,
	}
}
