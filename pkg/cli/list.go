package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/authflow-runner/pkg/harness"
	"github.com/devicelab-dev/authflow-runner/pkg/suite"
)

var listCommand = &cli.Command{
	Name:  "list",
	Usage: "List the scenarios in the suite",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "include-tags",
			Usage: "Only list scenarios with these tags",
		},
		&cli.StringSliceFlag{
			Name:  "exclude-tags",
			Usage: "Skip scenarios with these tags",
		},
	},
	Action: func(c *cli.Context) error {
		scenarios := harness.FilterByTags(
			suite.AuthScenarios(),
			c.StringSlice("include-tags"),
			c.StringSlice("exclude-tags"),
		)
		for _, sc := range scenarios {
			fmt.Printf("%-60s [%s]\n", sc.Name, strings.Join(sc.Tags, ", "))
		}
		fmt.Printf("\n%d scenarios\n", len(scenarios))
		return nil
	},
}
