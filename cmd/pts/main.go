//
//  Copyright © Manetu Inc. All rights reserved.
//

package main

import (
	"context"
	"log"
	"os"

	"github.com/manetu/ptsengine/cmd/pts/subcommands/lint"
	"github.com/manetu/ptsengine/cmd/pts/subcommands/run"
	"github.com/manetu/ptsengine/cmd/pts/subcommands/serve"
	"github.com/manetu/ptsengine/cmd/pts/version"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:    "pts",
		Usage:   "A CLI application for running productive test simulations",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Runs a what-if simulation from a scenario bundle and reports the verdict",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Load the SimulationScenario bundle from `FILE`",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "catalog",
						Aliases: []string{"c"},
						Usage:   "Load the RuleCatalog from `FILE` instead of the configured/embedded catalog",
					},
					&cli.StringFlag{
						Name:  "requested-by",
						Usage: "The acting user recorded for audit attribution",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Emit the full simulation result as JSON instead of a summary",
					},
				},
				Action: run.Execute,
			},
			{
				Name:  "lint",
				Usage: "Validate SimulationScenario bundle and RuleCatalog YAML files",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "YAML document to lint (.yml, .yaml). Can be specified multiple times.",
						Required: true,
					},
				},
				Action: lint.Execute,
			},
			{
				Name:  "serve",
				Usage: "Creates a simulation endpoint service",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "port",
						Usage: "The TCP port to serve on.",
						Value: 9000,
					},
					&cli.StringFlag{
						Name:    "catalog",
						Aliases: []string{"c"},
						Usage:   "Load the RuleCatalog from `FILE` instead of the configured/embedded catalog",
					},
					&cli.StringFlag{
						Name:  "permissions",
						Usage: "Seed the baseline permission snapshot from a bundle `FILE`'s permissions section",
					},
				},
				Action: serve.Execute,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
