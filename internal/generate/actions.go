// Package generate holds the CLI actions for the generate and validate
// commands.
package generate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dtnitsch/llms-builder/models"
	"github.com/dtnitsch/llms-builder/pkg/caching"
	"github.com/dtnitsch/llms-builder/pkg/crawl"
	"github.com/dtnitsch/llms-builder/pkg/db"
	"github.com/dtnitsch/llms-builder/pkg/enhance"
	"github.com/dtnitsch/llms-builder/pkg/llm"
	"github.com/dtnitsch/llms-builder/pkg/pipeline"
	"github.com/dtnitsch/llms-builder/pkg/render"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func newLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func loadConfig(c *cli.Context, logger *slog.Logger) *models.Config {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("language-filter") {
		cfg.Language.Enabled = c.Bool("language-filter")
	}
	return cfg
}

// buildEnhancer wires the LLM backend and its response cache. A missing API
// key is not fatal: the run continues unenhanced.
func buildEnhancer(cfg *models.Config, logger *slog.Logger) *enhance.Enhancer {
	completer, err := llm.NewOpenAI(cfg.Enhance)
	if err != nil {
		logger.Warn("LLM backend unavailable, continuing without enhancement", "error", err)
		return nil
	}

	var cache *caching.Cache
	if cfg.Enhance.CacheTTLMinutes > 0 {
		ttl := time.Duration(cfg.Enhance.CacheTTLMinutes) * time.Minute
		cache, err = caching.NewCache(".llmsb-cache", ttl)
		if err != nil {
			logger.Warn("failed to initialize response cache", "error", err)
		}
	}
	return enhance.New(completer, cfg.Enhance, cache, logger)
}

func GenerateAction(c *cli.Context) error {
	logger := newLogger(c)

	csvPath := c.String("csv")
	if csvPath == "" {
		fmt.Fprintln(os.Stderr, "Error: No CSV file provided")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  llmsb generate --csv crawl_export.csv`)
		fmt.Fprintln(os.Stderr, `  llmsb generate --csv crawl_export.csv --enhance   # LLM rewrite of titles/descriptions`)
		fmt.Fprintln(os.Stderr, `  llmsb generate --csv crawl_export.csv --preview   # First 50 lines, no files written`)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Need help? Run: llmsb generate --help")
		os.Exit(1)
	}

	cfg := loadConfig(c, logger)

	var enhancer *enhance.Enhancer
	if c.Bool("enhance") {
		enhancer = buildEnhancer(cfg, logger)
	}

	// Run history is optional; a broken database never blocks generation.
	database, err := db.Open()
	if err != nil {
		logger.Warn("failed to open database, run will not be recorded", "error", err)
		database = nil
	} else {
		defer database.Close()
	}

	p := pipeline.New(cfg, enhancer, database, logger)
	result := p.Run(c.Context, pipeline.Options{
		CSVPath:     csvPath,
		OutputName:  c.String("output"),
		Enhance:     c.Bool("enhance"),
		FillMissing: c.Bool("fill-missing"),
		PreviewOnly: c.Bool("preview"),
	})

	if err := printResult(c, result); err != nil {
		logger.Error("failed to marshal result", "error", err)
		os.Exit(2)
	}

	if !result.Success {
		os.Exit(2)
	}
	if len(result.ValidationIssues) > 0 {
		os.Exit(1)
	}

	if !c.Bool("quiet") && !c.Bool("preview") {
		fmt.Printf("\nGenerated: %s\n", result.Files.TXTPath)
		fmt.Printf("\nCommands:\n")
		fmt.Printf("  llmsb validate %s   # Re-check structure\n", result.Files.TXTPath)
		fmt.Printf("  llmsb runs list              # Run history\n")
		if result.RunID > 0 {
			fmt.Printf("  llmsb runs show %d            # This run\n", result.RunID)
		}
	}
	return nil
}

// ValidateAction checks either a generated file (positional argument) or a
// CSV export (--csv) without producing output files.
func ValidateAction(c *cli.Context) error {
	logger := newLogger(c)

	if c.NArg() > 0 {
		return validateOutput(c, c.Args().First())
	}

	csvPath := c.String("csv")
	if csvPath == "" {
		fmt.Fprintln(os.Stderr, "Error: Provide a generated file or --csv <export>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  llmsb validate exports/llms.txt        # Check a generated file`)
		fmt.Fprintln(os.Stderr, `  llmsb validate --csv crawl_export.csv  # Check an export before generating`)
		os.Exit(1)
	}

	loader := crawl.NewLoader(csvPath, logger)
	if err := loader.ValidateFile(); err != nil {
		logger.Error("CSV validation failed", "error", err)
		os.Exit(2)
	}
	records, err := loader.Load()
	if err != nil {
		logger.Error("CSV load failed", "error", err)
		os.Exit(2)
	}

	report := crawl.AnalyzeQuality(records)
	out := struct {
		Quality *models.QualityReport `json:"quality" yaml:"quality"`
		Advice  string                `json:"advice" yaml:"advice"`
	}{report, crawl.ExportAdvice(report)}

	data, err := marshal(c, out)
	if err != nil {
		logger.Error("failed to marshal report", "error", err)
		os.Exit(2)
	}
	fmt.Println(string(data))

	if !report.AppearsFiltered {
		os.Exit(1)
	}
	return nil
}

func validateOutput(c *cli.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	issues := render.Validate(string(content))
	out := struct {
		File   string   `json:"file" yaml:"file"`
		Valid  bool     `json:"valid" yaml:"valid"`
		Issues []string `json:"issues,omitempty" yaml:"issues,omitempty"`
	}{path, len(issues) == 0, issues}

	data, err := marshal(c, out)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	fmt.Println(string(data))

	if len(issues) > 0 {
		os.Exit(1)
	}
	return nil
}

func printResult(c *cli.Context, result *models.ProcessResult) error {
	data, err := marshal(c, result)
	if err != nil {
		return err
	}
	if result.Preview != "" && !c.Bool("quiet") {
		fmt.Println(result.Preview)
		fmt.Println("---")
	}
	fmt.Println(string(data))
	return nil
}

func marshal(c *cli.Context, v any) ([]byte, error) {
	if strings.ToLower(c.String("format")) == "yaml" {
		return yaml.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}
