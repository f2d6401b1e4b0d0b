// Package pipeline orchestrates a full generation run: load, filter,
// dedupe, categorize, enhance, assemble, render, and record. Only
// input-stage failures make the run unsuccessful; everything downstream
// degrades into warnings.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dtnitsch/llms-builder/internal/common"
	"github.com/dtnitsch/llms-builder/models"
	"github.com/dtnitsch/llms-builder/pkg/assemble"
	"github.com/dtnitsch/llms-builder/pkg/classify"
	"github.com/dtnitsch/llms-builder/pkg/crawl"
	"github.com/dtnitsch/llms-builder/pkg/db"
	"github.com/dtnitsch/llms-builder/pkg/dedupe"
	"github.com/dtnitsch/llms-builder/pkg/enhance"
	"github.com/dtnitsch/llms-builder/pkg/fillmeta"
	"github.com/dtnitsch/llms-builder/pkg/keywords"
	"github.com/dtnitsch/llms-builder/pkg/langfilter"
	"github.com/dtnitsch/llms-builder/pkg/render"
)

const (
	topKeywordCount  = 25
	previewLineCount = 50
)

// Options selects what one run does.
type Options struct {
	CSVPath     string
	OutputName  string // file prefix, default "llms"
	Enhance     bool
	FillMissing bool
	PreviewOnly bool
}

// Pipeline wires the stages together. Database and enhancer are optional;
// a nil database skips run recording, a disabled enhancer passes through.
type Pipeline struct {
	cfg      *models.Config
	enhancer *enhance.Enhancer
	database *db.DB
	logger   *slog.Logger
}

func New(cfg *models.Config, enhancer *enhance.Enhancer, database *db.DB, logger *slog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, enhancer: enhancer, database: database, logger: logger}
}

func failure(errType string, err error) *models.ProcessResult {
	return &models.ProcessResult{
		Success:   false,
		Error:     err.Error(),
		ErrorType: errType,
	}
}

// Run executes the pipeline and always returns a result, never panics or
// propagates post-input errors.
func (p *Pipeline) Run(ctx context.Context, opts Options) *models.ProcessResult {
	start := time.Now()

	loader := crawl.NewLoader(opts.CSVPath, p.logger)
	if err := loader.ValidateFile(); err != nil {
		return failure("validation", err)
	}
	records, err := loader.Load()
	if err != nil {
		return failure("load", err)
	}

	quality := crawl.AnalyzeQuality(records)
	p.logger.Info("input quality analyzed", "score", quality.QualityScore, "appears_filtered", quality.AppearsFiltered)

	indexable := crawl.FilterIndexable(records)
	if len(indexable) == 0 {
		return failure("filter", fmt.Errorf("no indexable pages found in %d rows", len(records)))
	}

	// The content filter drops untitled rows, so the fill has to run first
	// or the rows it targets are already gone.
	filled := 0
	if opts.FillMissing {
		filled = fillmeta.New(p.cfg.Fill, p.logger).Fill(ctx, indexable)
	}

	content := crawl.FilterContent(indexable, p.logger)
	if len(content) == 0 {
		return failure("filter", fmt.Errorf("no content pages left after filtering %d indexable rows", len(indexable)))
	}

	stats := models.Stats{
		TotalRows:      len(records),
		IndexablePages: len(indexable),
		ContentPages:   len(content),
		FilledMetadata: filled,
		Quality:        quality,
	}

	if p.cfg.Language.Enabled {
		content, stats.DroppedLanguage = langfilter.New(p.cfg.Language, p.logger).Apply(content)
	}

	deduper := dedupe.New(p.cfg.Dedupe, p.logger)
	deduped, dropped := deduper.Dedupe(content)
	stats.UniquePages = len(deduped)
	stats.DroppedDuplicates = dropped

	site := crawl.ExtractSiteMetadata(deduped)
	set := classify.New(p.cfg).CategorizeAll(deduped)

	if opts.Enhance && p.enhancer.Enabled() {
		p.enhancer.EnhanceAll(ctx, set, site)
		stats.Enhanced = true
	} else if opts.Enhance {
		p.logger.Warn("enhancement requested but no LLM backend configured, skipping")
	}

	sections := assemble.New(p.cfg).Assemble(set)
	stats.Categories = set.Counts()
	stats.TopKeywords = keywords.FromPages(set, topKeywordCount)

	result := &models.ProcessResult{Success: true, Stats: stats}

	if opts.PreviewOnly {
		result.Preview = render.Preview(site, sections, previewLineCount)
		result.Stats.TotalTimeSeconds = time.Since(start).Seconds()
		return result
	}

	prefix := opts.OutputName
	if prefix == "" {
		prefix = "llms"
	}
	files, err := render.SaveFiles(site, sections, &result.Stats, p.cfg.OutputDir, prefix)
	result.Files = files
	if err != nil {
		// Output failures degrade: the caller still gets stats and issues.
		p.logger.Warn("failed to save output files", "error", err)
		result.ValidationIssues = append(result.ValidationIssues, fmt.Sprintf("Failed to save output: %v", err))
	} else {
		result.ValidationIssues = append(result.ValidationIssues, render.Validate(render.Markdown(site, sections, true))...)
	}

	result.Stats.TotalTimeSeconds = time.Since(start).Seconds()

	p.recordRun(opts, result, set)
	return result
}

// recordRun persists run metadata to the database and the run index file.
// Both are best-effort.
func (p *Pipeline) recordRun(opts Options, result *models.ProcessResult, set *models.CategorizedSet) {
	status := "success"
	if len(result.ValidationIssues) > 0 {
		status = "partial"
	}

	inputHash := ""
	if data, err := os.ReadFile(opts.CSVPath); err == nil {
		inputHash = common.ContentHash(data)
	}

	if p.database != nil {
		run := &db.Run{
			CSVPath:          opts.CSVPath,
			InputHash:        inputHash,
			TotalRows:        result.Stats.TotalRows,
			IndexablePages:   result.Stats.IndexablePages,
			UniquePages:      result.Stats.UniquePages,
			Enhanced:         result.Stats.Enhanced,
			TXTPath:          result.Files.TXTPath,
			JSONPath:         result.Files.JSONPath,
			ValidationIssues: result.ValidationIssues,
			Status:           status,
		}
		runID, err := p.database.InsertRun(run, set.Counts())
		if err != nil {
			p.logger.Warn("failed to record run in database", "error", err)
		} else {
			result.RunID = runID
		}
	}

	info := RunInfo{
		RunID:       result.RunID,
		Created:     time.Now(),
		CSVPath:     opts.CSVPath,
		UniquePages: result.Stats.UniquePages,
		Enhanced:    result.Stats.Enhanced,
		TXTPath:     result.Files.TXTPath,
		Status:      status,
	}
	if err := UpdateRunIndex(p.cfg.OutputDir, info); err != nil {
		p.logger.Warn("failed to update run index", "error", err)
	}
}
