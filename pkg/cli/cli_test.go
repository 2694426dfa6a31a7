package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/authflow-runner/pkg/config"
	"github.com/devicelab-dev/authflow-runner/pkg/logger"
)

func TestApplyRunFlags(t *testing.T) {
	settings := config.Defaults()

	app := &cli.App{
		Flags: GlobalFlags,
		Commands: []*cli.Command{{
			Name:  "run",
			Flags: runCommand.Flags,
			Action: func(c *cli.Context) error {
				applyRunFlags(c, settings)
				return nil
			},
		}},
	}

	err := app.Run([]string{"authflow-runner", "run",
		"--browser", "Firefox",
		"--headless",
		"--base-url", "https://staging.example.com",
		"--output", "out",
		"--parallel", "3",
		"--stop-on-fail",
	})
	if err != nil {
		t.Fatalf("app.Run() error = %v", err)
	}

	if settings.Browser.Name != "firefox" {
		t.Errorf("browser = %q, want firefox", settings.Browser.Name)
	}
	if !settings.Browser.Headless {
		t.Error("headless should be set")
	}
	if settings.URLs.Base != "https://staging.example.com" {
		t.Errorf("base URL = %q", settings.URLs.Base)
	}
	if settings.Reporting.OutputDir != "out" {
		t.Errorf("output dir = %q, want out", settings.Reporting.OutputDir)
	}
	if settings.Parallelism != 3 {
		t.Errorf("parallelism = %d, want 3", settings.Parallelism)
	}
	if !settings.StopOnFail {
		t.Error("stop-on-fail should be set")
	}
}

func TestApplyRunFlagsLeavesDefaultsAlone(t *testing.T) {
	settings := config.Defaults()
	// Values from the config file or environment must survive a flagless
	// invocation.
	settings.Parallelism = 2
	settings.StopOnFail = true

	app := &cli.App{
		Commands: []*cli.Command{{
			Name:  "run",
			Flags: runCommand.Flags,
			Action: func(c *cli.Context) error {
				applyRunFlags(c, settings)
				return nil
			},
		}},
	}

	if err := app.Run([]string{"authflow-runner", "run"}); err != nil {
		t.Fatalf("app.Run() error = %v", err)
	}
	if settings.Browser.Name != "chrome" {
		t.Errorf("browser = %q, want untouched default", settings.Browser.Name)
	}
	if settings.Reporting.OutputDir != "reports" {
		t.Errorf("output dir = %q, want untouched default", settings.Reporting.OutputDir)
	}
	if settings.Parallelism != 2 {
		t.Errorf("parallelism = %d, want configured 2", settings.Parallelism)
	}
	if !settings.StopOnFail {
		t.Error("stop-on-fail should keep its configured value")
	}
}

func TestPrepareRunOutputCreatesReportsDir(t *testing.T) {
	settings := config.Defaults()
	settings.Reporting.OutputDir = filepath.Join(t.TempDir(), "reports")

	sink, err := prepareRunOutput(settings)
	if err != nil {
		t.Fatalf("prepareRunOutput() error = %v", err)
	}
	defer logger.Close()

	if sink.Dir() != settings.Reporting.OutputDir {
		t.Errorf("sink dir = %q, want %q", sink.Dir(), settings.Reporting.OutputDir)
	}
	if _, err := os.Stat(filepath.Join(sink.Dir(), "run.log")); err != nil {
		t.Errorf("run.log not created: %v", err)
	}
}

func TestListCommand(t *testing.T) {
	app := &cli.App{Commands: []*cli.Command{listCommand}}
	if err := app.Run([]string{"authflow-runner", "list", "--include-tags", "smoke"}); err != nil {
		t.Fatalf("list command error = %v", err)
	}
}
