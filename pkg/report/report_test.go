package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devicelab-dev/authflow-runner/pkg/core"
)

func TestSinkSaveScreenshot(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewSink(dir)
	if err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}

	art, err := sink.SaveScreenshot("Valid login with correct credentials", []byte{0x89, 0x50})
	if err != nil {
		t.Fatalf("SaveScreenshot() error = %v", err)
	}

	if art.Kind != core.ArtifactScreenshot {
		t.Errorf("kind = %q, want %q", art.Kind, core.ArtifactScreenshot)
	}
	if art.ContentType != core.ContentTypePNG {
		t.Errorf("content type = %q, want %q", art.ContentType, core.ContentTypePNG)
	}
	if strings.Contains(art.Path, " ") {
		t.Errorf("path %q should be sanitized", art.Path)
	}
	if !strings.HasPrefix(art.Path, "failure_Valid_login") {
		t.Errorf("path = %q, want failure_<scenario>_<ts>.png shape", art.Path)
	}

	data, err := os.ReadFile(filepath.Join(dir, art.Path))
	if err != nil {
		t.Fatalf("artifact file not readable: %v", err)
	}
	if len(data) != 2 {
		t.Errorf("artifact length = %d, want 2", len(data))
	}
}

func TestSinkSaveConsoleLog(t *testing.T) {
	sink, err := NewSink(t.TempDir())
	if err != nil {
		t.Fatalf("NewSink() error = %v", err)
	}

	art, err := sink.SaveConsoleLog("scenario", []string{"error: boom", "warning: slow"})
	if err != nil {
		t.Fatalf("SaveConsoleLog() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(sink.Dir(), art.Path))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "error: boom\nwarning: slow" {
		t.Errorf("console log content = %q", string(data))
	}
}

func TestSummaryText(t *testing.T) {
	info := RunInfo{
		RunID:     "run-1",
		StartedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Browser:   "chrome",
		BaseURL:   "https://www.hudl.com",
	}
	snap := core.MetricsSnapshot{
		Total:    3,
		Passed:   2,
		Failed:   1,
		Duration: 1500 * time.Millisecond,
		PassRate: 66.67,
	}

	text := SummaryText(info, snap)
	for _, want := range []string{
		"Total Tests: 3",
		"Passed: 2",
		"Failed: 1",
		"Pass Rate: 66.67%",
		"Browser: chrome",
		"Base URL: https://www.hudl.com",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

func TestWriteSummaryOmitsPassRateWhenEmpty(t *testing.T) {
	sink, err := NewSink(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path, err := sink.WriteSummary(RunInfo{RunID: "run-2", StartedAt: time.Now()}, core.MetricsSnapshot{})
	if err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Pass Rate") {
		t.Error("empty run should not report a pass rate")
	}
}
