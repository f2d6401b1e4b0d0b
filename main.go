package main

import (
	"fmt"
	"log"
	"os"

	"github.com/dtnitsch/llms-builder/internal/generate"
	"github.com/dtnitsch/llms-builder/internal/runs"
	"github.com/dtnitsch/llms-builder/internal/serve"
	"github.com/dtnitsch/llms-builder/pkg/help"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "llmsb",
		Usage: "Build a curated LLMS.txt index from a website crawl CSV export",
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Generate llms.txt and llms.json from a crawl export",
				Action: generate.GenerateAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "csv",
						Usage: "Path to the crawl CSV export",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output file prefix",
						Value: "llms",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Directory for generated files (overrides config)",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a YAML config overriding the built-in patterns",
					},
					&cli.BoolFlag{
						Name:  "enhance",
						Usage: "Rewrite titles/descriptions with an LLM (needs OPENAI_API_KEY)",
					},
					&cli.BoolFlag{
						Name:  "fill-missing",
						Usage: "Fetch pages with no title and no description to fill metadata",
					},
					&cli.BoolFlag{
						Name:  "language-filter",
						Usage: "Drop pages not in the site's dominant language",
					},
					&cli.BoolFlag{
						Name:  "preview",
						Usage: "Print the first 50 lines instead of writing files",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Result format: json or yaml",
						Value: "json",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Errors only",
					},
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a generated file, or a CSV export with --csv",
				ArgsUsage: "[generated-file]",
				Action:    generate.ValidateAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "csv",
						Usage: "Check a crawl export before generating",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Report format: json or yaml",
						Value: "json",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Errors only",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run a local web UI for uploading crawl exports",
				Action: serve.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: "127.0.0.1:8080",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a YAML config overriding the built-in patterns",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Directory for generated files (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "Errors only",
					},
				},
			},
			{
				Name:   "runs",
				Usage:  "Browse generation run history",
				Action: runs.ListAction,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum runs to show",
						Value: 20,
					},
				},
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List recent runs",
						Action: runs.ListAction,
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Maximum runs to show",
								Value: 20,
							},
						},
					},
					{
						Name:      "show",
						Usage:     "Show one run as YAML",
						ArgsUsage: "<run_id>",
						Action:    runs.ShowAction,
					},
				},
			},
			{
				Name:  "coldstart",
				Usage: "Print a machine-readable quick start reference",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
