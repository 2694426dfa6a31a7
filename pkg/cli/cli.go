// Package cli provides the command-line interface for authflow-runner.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config.yaml (default: ./config.yaml if present)",
		EnvVars: []string{"AUTHFLOW_CONFIG"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"AUTHFLOW_VERBOSE"},
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "authflow-runner",
		Usage:   "Browser-driven test runner for web authentication flows",
		Version: Version,
		Description: `Authflow Runner drives a real browser through login, logout,
registration and password reset flows and reports on each scenario.

Examples:
  authflow-runner run
  authflow-runner run --include-tags smoke --headless
  authflow-runner run --browser firefox --base-url https://staging.example.com
  authflow-runner list`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			runCommand,
			listCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
