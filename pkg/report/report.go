// Package report persists run artifacts and the end-of-run summary.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devicelab-dev/authflow-runner/pkg/core"
	"github.com/devicelab-dev/authflow-runner/pkg/logger"
)

// RunInfo identifies one runner invocation in the summary.
type RunInfo struct {
	RunID     string
	StartedAt time.Time
	Browser   string
	BaseURL   string
}

// Sink writes artifacts into the reports directory.
type Sink struct {
	dir string
}

// NewSink creates the reports directory if needed.
func NewSink(dir string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("could not create reports directory %s: %w", dir, err)
	}
	return &Sink{dir: dir}, nil
}

// Dir returns the sink's output directory.
func (s *Sink) Dir() string {
	return s.dir
}

// SaveScreenshot writes a failure screenshot for the named scenario.
func (s *Sink) SaveScreenshot(scenario string, data []byte) (core.Artifact, error) {
	return s.save(core.ArtifactScreenshot, scenario, "png", core.ContentTypePNG, data)
}

// SavePageSource writes the page HTML captured on a step failure.
func (s *Sink) SavePageSource(scenario string, html string) (core.Artifact, error) {
	return s.save(core.ArtifactStepFailure, scenario, "html", core.ContentTypeHTML, []byte(html))
}

// SaveScenarioPageSource writes the page HTML captured when a scenario
// finishes failed.
func (s *Sink) SaveScenarioPageSource(scenario string, html string) (core.Artifact, error) {
	return s.save(core.ArtifactPageSource, scenario, "html", core.ContentTypeHTML, []byte(html))
}

// SaveConsoleLog writes the browser console lines captured for a scenario.
func (s *Sink) SaveConsoleLog(scenario string, lines []string) (core.Artifact, error) {
	return s.save(core.ArtifactConsoleLog, scenario, "txt", core.ContentTypeText,
		[]byte(strings.Join(lines, "\n")))
}

func (s *Sink) save(kind, scenario, ext, contentType string, data []byte) (core.Artifact, error) {
	ts := time.Now()
	fileName := core.ArtifactFileName(kind, scenario, ts, ext)
	path := filepath.Join(s.dir, fileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return core.Artifact{}, fmt.Errorf("could not write artifact %s: %w", path, err)
	}
	logger.Info("Artifact saved: %s", path)
	return core.Artifact{
		Kind:        kind,
		ContentType: contentType,
		Path:        fileName,
		Scenario:    scenario,
		CapturedAt:  ts,
	}, nil
}

// SummaryText renders the human-readable run summary.
func SummaryText(info RunInfo, snap core.MetricsSnapshot) string {
	var b strings.Builder
	b.WriteString("Test Execution Summary\n")
	b.WriteString("=====================\n")
	fmt.Fprintf(&b, "Run ID: %s\n", info.RunID)
	fmt.Fprintf(&b, "Execution Date: %s\n", info.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration: %s\n", snap.Duration.Round(time.Millisecond))
	if info.Browser != "" {
		fmt.Fprintf(&b, "Browser: %s\n", info.Browser)
	}
	if info.BaseURL != "" {
		fmt.Fprintf(&b, "Base URL: %s\n", info.BaseURL)
	}
	fmt.Fprintf(&b, "Total Tests: %d\n", snap.Total)
	fmt.Fprintf(&b, "Passed: %d\n", snap.Passed)
	fmt.Fprintf(&b, "Failed: %d\n", snap.Failed)
	fmt.Fprintf(&b, "Skipped: %d\n", snap.Skipped)
	if snap.Total > 0 {
		fmt.Fprintf(&b, "Pass Rate: %.2f%%\n", snap.PassRate)
	}
	return b.String()
}

// WriteSummary writes the run summary into the sink's directory.
func (s *Sink) WriteSummary(info RunInfo, snap core.MetricsSnapshot) (string, error) {
	path := filepath.Join(s.dir, "test_summary.txt")
	if err := os.WriteFile(path, []byte(SummaryText(info, snap)), 0o600); err != nil {
		return "", fmt.Errorf("could not write summary %s: %w", path, err)
	}
	return path, nil
}
