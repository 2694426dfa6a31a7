package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/authflow-runner/pkg/browser"
	"github.com/devicelab-dev/authflow-runner/pkg/config"
	"github.com/devicelab-dev/authflow-runner/pkg/core"
	"github.com/devicelab-dev/authflow-runner/pkg/harness"
	"github.com/devicelab-dev/authflow-runner/pkg/logger"
	"github.com/devicelab-dev/authflow-runner/pkg/report"
	"github.com/devicelab-dev/authflow-runner/pkg/suite"
)

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "Run the authentication scenario suite",
	Description: `Run the authentication scenarios against the configured
application. Each scenario gets a fresh browser session; failures leave a
screenshot and page source in the reports directory.

Examples:
  authflow-runner run
  authflow-runner run --include-tags login --exclude-tags social
  authflow-runner run --headless --parallel 2
  authflow-runner run --base-url https://staging.example.com`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "browser",
			Aliases: []string{"b"},
			Usage:   "Browser to drive (chrome, firefox, webkit)",
			EnvVars: []string{"BROWSER"},
		},
		&cli.BoolFlag{
			Name:    "headless",
			Usage:   "Run the browser headless",
			EnvVars: []string{"HEADLESS"},
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL of the application under test",
			EnvVars: []string{"BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "login-url",
			Usage:   "Full login page URL (default: <base-url>/login)",
			EnvVars: []string{"LOGIN_URL"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output directory for reports and artifacts",
		},
		&cli.StringSliceFlag{
			Name:  "include-tags",
			Usage: "Only run scenarios with these tags",
		},
		&cli.StringSliceFlag{
			Name:  "exclude-tags",
			Usage: "Skip scenarios with these tags",
		},
		&cli.IntFlag{
			Name:  "parallel",
			Usage: "Run up to N scenarios concurrently (0 = sequential)",
		},
		&cli.BoolFlag{
			Name:  "stop-on-fail",
			Usage: "Stop scheduling scenarios after the first failure",
		},
	},
	Action: runSuite,
}

func runSuite(c *cli.Context) error {
	settings, err := loadSettings(c)
	if err != nil {
		return err
	}
	applyRunFlags(c, settings)

	// The sink creates the output directory; the log file lives inside it,
	// so the sink must exist first.
	sink, err := prepareRunOutput(settings)
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.SetVerbose(c.Bool("verbose") || globalBool(c, "verbose"))

	scenarios := harness.FilterByTags(
		suite.AuthScenarios(),
		c.StringSlice("include-tags"),
		c.StringSlice("exclude-tags"),
	)
	if len(scenarios) == 0 {
		return fmt.Errorf("no scenarios match the given tags")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel the run on Ctrl+C or kill; the runner skips what has not
	// started and still writes the summary.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warn("Received signal %v, stopping run", sig)
		fmt.Fprintf(os.Stderr, "\nReceived %v, finishing current scenario...\n", sig)
		cancel()
	}()
	defer signal.Stop(sigCh)

	defer browser.StopDriver()

	runner := harness.New(harness.RunnerConfig{
		Settings: settings,
		Artifacts: core.ArtifactConfig{
			Screenshot:     settings.Reporting.ScreenshotOnFailure,
			PageSource:     settings.Reporting.PageSourceOnFailure,
			ConsoleLog:     settings.Reporting.ConsoleLogOnFailure,
			StepPageSource: settings.Reporting.PageSourceOnFailure,
		},
		Sink:        sink,
		Parallelism: settings.Parallelism,
		StopOnFail:  settings.StopOnFail,
		OnScenarioStart: func(idx, total int, name string) {
			fmt.Printf("[%d/%d] %s\n", idx+1, total, name)
		},
	})

	result, err := runner.Run(ctx, scenarios)
	if err != nil {
		return err
	}

	printResults(result, settings)
	if code := result.ExitCode(); code != 0 {
		return cli.Exit("", code)
	}
	return nil
}

// prepareRunOutput creates the reports directory through the sink and then
// opens the run log inside it.
func prepareRunOutput(settings *config.Settings) (*report.Sink, error) {
	sink, err := report.NewSink(settings.Reporting.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(filepath.Join(sink.Dir(), "run.log")); err != nil {
		return nil, fmt.Errorf("could not initialize logging: %w", err)
	}
	return sink, nil
}

func loadSettings(c *cli.Context) (*config.Settings, error) {
	if path := globalString(c, "config"); path != "" {
		return config.Load(path)
	}
	return config.LoadFromDir(".")
}

// applyRunFlags overlays command-line flags on top of file and env settings.
func applyRunFlags(c *cli.Context, settings *config.Settings) {
	if c.IsSet("browser") {
		settings.Browser.Name = strings.ToLower(c.String("browser"))
	}
	if c.IsSet("headless") {
		settings.Browser.Headless = c.Bool("headless")
	}
	if c.IsSet("base-url") {
		settings.URLs.Base = c.String("base-url")
	}
	if c.IsSet("login-url") {
		settings.URLs.Login = c.String("login-url")
	}
	if c.IsSet("output") {
		settings.Reporting.OutputDir = c.String("output")
	}
	if c.IsSet("parallel") {
		settings.Parallelism = c.Int("parallel")
	}
	if c.IsSet("stop-on-fail") {
		settings.StopOnFail = c.Bool("stop-on-fail")
	}
}

func printResults(result *harness.RunResult, settings *config.Settings) {
	fmt.Println()
	for _, sc := range result.Scenarios {
		switch sc.Status {
		case core.StatusPassed:
			fmt.Printf("  PASS  %s (%s)\n", sc.Name, sc.Duration.Round(time.Millisecond))
		case core.StatusFailed:
			fmt.Printf("  FAIL  %s at %q: %s\n", sc.Name, sc.FailedStep, sc.Error)
			for _, a := range sc.Artifacts {
				fmt.Printf("        artifact: %s\n", filepath.Join(settings.Reporting.OutputDir, a.Path))
			}
		default:
			fmt.Printf("  SKIP  %s\n", sc.Name)
		}
	}
	fmt.Println()
	fmt.Println(report.SummaryText(report.RunInfo{
		RunID:     result.RunID,
		StartedAt: result.StartedAt,
		Browser:   settings.Browser.Name,
		BaseURL:   settings.URLs.Base,
	}, result.Snapshot))
}

// globalString reads a flag from the current or parent context; global
// flags live in the parent when run as a subcommand.
func globalString(c *cli.Context, name string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	if len(c.Lineage()) > 1 && c.Lineage()[1] != nil {
		return c.Lineage()[1].String(name)
	}
	return c.String(name)
}

func globalBool(c *cli.Context, name string) bool {
	if c.IsSet(name) {
		return c.Bool(name)
	}
	if len(c.Lineage()) > 1 && c.Lineage()[1] != nil {
		return c.Lineage()[1].Bool(name)
	}
	return c.Bool(name)
}
