package harness

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devicelab-dev/authflow-runner/pkg/browser"
	"github.com/devicelab-dev/authflow-runner/pkg/config"
	"github.com/devicelab-dev/authflow-runner/pkg/core"
	"github.com/devicelab-dev/authflow-runner/pkg/logger"
	"github.com/devicelab-dev/authflow-runner/pkg/report"
)

// SessionFactory creates the browser session for one scenario. Swappable
// so tests can inject a scripted session.
type SessionFactory func(browser.Config) (browser.Session, error)

// RunnerConfig configures the scenario runner.
type RunnerConfig struct {
	Settings  *config.Settings
	Artifacts core.ArtifactConfig
	Sink      *report.Sink

	Parallelism int  // Max concurrent scenarios (0 = sequential)
	StopOnFail  bool // Stop scheduling new scenarios on first failure

	// StepPause is the settling delay between steps. Defaults to 500ms.
	StepPause time.Duration

	NewSession SessionFactory // Defaults to browser.NewSession

	// Live progress callbacks
	OnScenarioStart func(idx, total int, name string)
	OnScenarioEnd   func(name string, status core.ScenarioStatus, duration time.Duration)
}

// ScenarioResult is the outcome of one scenario.
type ScenarioResult struct {
	Name       string
	Status     core.ScenarioStatus
	Duration   time.Duration
	Error      string
	FailedStep string
	Artifacts  []core.Artifact
}

// RunResult is the outcome of a whole run.
type RunResult struct {
	RunID     string
	StartedAt time.Time
	Scenarios []ScenarioResult
	Snapshot  core.MetricsSnapshot
}

// ExitCode returns 0 for a clean run, 1 when any scenario failed.
func (r *RunResult) ExitCode() int {
	if r.Snapshot.Failed > 0 {
		return 1
	}
	return 0
}

// Runner executes scenarios, each in its own browser session.
type Runner struct {
	config  RunnerConfig
	metrics *core.TestMetrics
}

// New creates a Runner.
func New(cfg RunnerConfig) *Runner {
	if cfg.NewSession == nil {
		cfg.NewSession = browser.NewSession
	}
	if cfg.StepPause == 0 {
		cfg.StepPause = 500 * time.Millisecond
	}
	return &Runner{
		config:  cfg,
		metrics: core.NewTestMetrics(),
	}
}

// Run executes all scenarios and writes the run summary.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) (*RunResult, error) {
	runID := uuid.NewString()
	startedAt := time.Now()
	logger.Info("Run %s started: %d scenarios, %s", runID, len(scenarios), r.config.Settings)

	results := r.executeScenarios(ctx, scenarios)

	snap := r.metrics.Snapshot()
	result := &RunResult{
		RunID:     runID,
		StartedAt: startedAt,
		Scenarios: results,
		Snapshot:  snap,
	}

	if r.config.Sink != nil {
		info := report.RunInfo{
			RunID:     runID,
			StartedAt: startedAt,
			Browser:   r.config.Settings.Browser.Name,
			BaseURL:   r.config.Settings.URLs.Base,
		}
		if _, err := r.config.Sink.WriteSummary(info, snap); err != nil {
			logger.Error("Could not write run summary: %v", err)
		}
	}

	logger.Info("Run %s finished: %s", runID, snap)
	return result, nil
}

// executeScenarios runs scenarios sequentially or behind a semaphore.
func (r *Runner) executeScenarios(ctx context.Context, scenarios []Scenario) []ScenarioResult {
	results := make([]ScenarioResult, len(scenarios))
	total := len(scenarios)

	if r.config.Parallelism <= 0 {
		stopped := false
		for i, sc := range scenarios {
			if stopped || ctx.Err() != nil {
				results[i] = r.skip(sc, "run stopped")
				continue
			}
			results[i] = r.executeScenario(ctx, sc, i, total)
			if r.config.StopOnFail && results[i].Status == core.StatusFailed {
				stopped = true
			}
		}
		return results
	}

	sem := make(chan struct{}, r.config.Parallelism)
	var wg sync.WaitGroup
	var mu sync.Mutex
	stopAll := false

	for i := range scenarios {
		mu.Lock()
		shouldStop := stopAll
		mu.Unlock()
		if shouldStop || ctx.Err() != nil {
			results[i] = r.skip(scenarios[i], "run stopped")
			continue
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result := r.executeScenario(ctx, scenarios[idx], idx, total)
			results[idx] = result

			if r.config.StopOnFail && result.Status == core.StatusFailed {
				mu.Lock()
				stopAll = true
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	return results
}

func (r *Runner) skip(sc Scenario, reason string) ScenarioResult {
	r.metrics.Record(core.StatusSkipped)
	return ScenarioResult{
		Name:   sc.Name,
		Status: core.StatusSkipped,
		Error:  reason,
	}
}

// executeScenario runs one scenario in a fresh session and records its
// outcome exactly once.
func (r *Runner) executeScenario(ctx context.Context, sc Scenario, idx, total int) ScenarioResult {
	if r.config.OnScenarioStart != nil {
		r.config.OnScenarioStart(idx, total, sc.Name)
	}
	logger.Info("Starting scenario (%d/%d): %s", idx+1, total, sc.Name)
	start := time.Now()

	result := r.runInSession(ctx, sc)
	result.Duration = time.Since(start)

	r.metrics.Record(result.Status)
	switch result.Status {
	case core.StatusPassed:
		logger.Info("Scenario PASSED: %s (%s)", sc.Name, result.Duration.Round(time.Millisecond))
	case core.StatusFailed:
		logger.Error("Scenario FAILED: %s at step %q: %s", sc.Name, result.FailedStep, result.Error)
	default:
		logger.Warn("Scenario SKIPPED: %s", sc.Name)
	}

	if r.config.OnScenarioEnd != nil {
		r.config.OnScenarioEnd(sc.Name, result.Status, result.Duration)
	}
	return result
}

func (r *Runner) runInSession(ctx context.Context, sc Scenario) ScenarioResult {
	result := ScenarioResult{Name: sc.Name, Status: core.StatusPassed}

	session, err := r.config.NewSession(browserConfig(r.config.Settings))
	if err != nil {
		result.Status = core.StatusFailed
		result.Error = fmt.Sprintf("session setup: %v", err)
		return result
	}
	// Teardown failures must not change a scenario's outcome.
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("Error closing session for %s: %v", sc.Name, err)
		}
	}()

	scCtx := newContext(session, r.config.Settings)

	for i, step := range sc.Steps {
		if ctx.Err() != nil {
			result.Status = core.StatusSkipped
			result.Error = "run cancelled"
			return result
		}
		logger.Debug("Step %d/%d: %s", i+1, len(sc.Steps), step.Name)
		if err := step.Run(scCtx); err != nil {
			result.Status = core.StatusFailed
			result.Error = err.Error()
			result.FailedStep = step.Name
			result.Artifacts = append(result.Artifacts, r.captureStepFailure(session, sc.Name)...)
			break
		}
		if r.config.StepPause > 0 && i < len(sc.Steps)-1 {
			time.Sleep(r.config.StepPause)
		}
	}

	// Scenario-level artifacts are captured while the session is still
	// live, before the deferred Close runs.
	if result.Status == core.StatusFailed {
		result.Artifacts = append(result.Artifacts,
			r.captureScenarioFailure(session, sc.Name, hasPageSource(result.Artifacts))...)
	}
	return result
}

func hasPageSource(artifacts []core.Artifact) bool {
	for _, a := range artifacts {
		if a.Kind == core.ArtifactStepFailure || a.Kind == core.ArtifactPageSource {
			return true
		}
	}
	return false
}

// captureStepFailure saves the page source at the failing step.
func (r *Runner) captureStepFailure(session browser.Session, scenario string) []core.Artifact {
	if r.config.Sink == nil || !r.config.Artifacts.StepPageSource {
		return nil
	}
	html, err := session.PageSource()
	if err != nil {
		logger.Warn("Could not capture page source for %s: %v", scenario, err)
		return nil
	}
	art, err := r.config.Sink.SavePageSource(scenario, html)
	if err != nil {
		logger.Warn("Could not save page source for %s: %v", scenario, err)
		return nil
	}
	return []core.Artifact{art}
}

// captureScenarioFailure saves the screenshot, page source, and console
// log for a failed scenario. Capture failures are logged and swallowed.
// The page source is skipped when the failing step already captured one.
func (r *Runner) captureScenarioFailure(session browser.Session, scenario string, pageSourceCaptured bool) []core.Artifact {
	if r.config.Sink == nil {
		return nil
	}
	var artifacts []core.Artifact
	if r.config.Artifacts.Screenshot {
		if data, err := session.Screenshot(); err != nil {
			logger.Warn("Could not take screenshot for %s: %v", scenario, err)
		} else if art, err := r.config.Sink.SaveScreenshot(scenario, data); err != nil {
			logger.Warn("Could not save screenshot for %s: %v", scenario, err)
		} else {
			artifacts = append(artifacts, art)
		}
	}
	if r.config.Artifacts.PageSource && !pageSourceCaptured {
		if html, err := session.PageSource(); err != nil {
			logger.Warn("Could not capture page source for %s: %v", scenario, err)
		} else if art, err := r.config.Sink.SaveScenarioPageSource(scenario, html); err != nil {
			logger.Warn("Could not save page source for %s: %v", scenario, err)
		} else {
			artifacts = append(artifacts, art)
		}
	}
	if r.config.Artifacts.ConsoleLog {
		if lines := session.ConsoleLog(); len(lines) > 0 {
			if art, err := r.config.Sink.SaveConsoleLog(scenario, lines); err != nil {
				logger.Warn("Could not save console log for %s: %v", scenario, err)
			} else {
				artifacts = append(artifacts, art)
			}
		}
	}
	return artifacts
}
