package main

import (
	"fmt"
	"os"

	"github.com/aASDa213ASD/noiseless/internal/filter"
	"github.com/aASDa213ASD/noiseless/internal/info"
	"github.com/aASDa213ASD/noiseless/internal/runs"
	"github.com/aASDa213ASD/noiseless/internal/shell"
	"github.com/aASDa213ASD/noiseless/models"
	"github.com/urfave/cli/v2"
)

const version = "2.1.0"

func main() {
	app := &cli.App{
		Name:    "noiseless",
		Usage:   "parallel log filtering and fingerprinting",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: models.DefaultConfigFile,
				Usage: "path to the YAML config file",
			},
			&cli.StringFlag{
				Name:  "data-root",
				Usage: "base directory for logs/, filters/ and filtered_logs/",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "suppress progress output and non-error logs",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "info",
				Usage:     "fingerprint a log file and print the snapshot as JSON",
				ArgsUsage: "<log-file>",
				Action:    info.InfoAction,
			},
			{
				Name:      "filter",
				Usage:     "filter a log file against a keyword spec",
				ArgsUsage: "<log-file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "keyword spec file, bare names resolve under the filters directory",
					},
					&cli.BoolFlag{
						Name:    "overwrite",
						Aliases: []string{"o"},
						Usage:   "overwrite an existing output directory",
					},
				},
				Action: filter.FilterAction,
			},
			{
				Name:  "runs",
				Usage: "list recorded filter runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "maximum number of runs to list",
					},
					&cli.IntFlag{
						Name:  "id",
						Usage: "show one run in detail",
					},
				},
				Action: runs.RunsAction,
			},
			{
				Name:   "shell",
				Usage:  "start the interactive shell",
				Action: shell.ShellAction,
			},
			{
				Name:  "version",
				Usage: "print the noiseless version",
				Action: func(c *cli.Context) error {
					fmt.Printf("noiseless %s\n", c.App.Version)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
