// Package enhance rewrites titles and descriptions of selected categories
// through an LLM, in batches, with per-batch fallback: any failure reverts
// that batch to its originals and the run continues. Enhancement can change
// text but never page counts, URLs, or category membership.
package enhance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dtnitsch/llms-builder/models"
	"github.com/dtnitsch/llms-builder/pkg/caching"
	"github.com/dtnitsch/llms-builder/pkg/jsonrepair"
	"github.com/dtnitsch/llms-builder/pkg/llm"
)

const systemPrompt = "You are an AI search optimization expert. Write complete, natural titles and descriptions without truncation marks."

// improvement is one entry of the model's response array. Index is 1-based.
type improvement struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Enhancer batches pages through a Completer. A nil Completer makes every
// method a pass-through.
type Enhancer struct {
	completer llm.Completer
	cfg       models.EnhanceConfig
	cache     *caching.Cache
	logger    *slog.Logger
}

// New builds an Enhancer. cache may be nil to disable response caching.
func New(completer llm.Completer, cfg models.EnhanceConfig, cache *caching.Cache, logger *slog.Logger) *Enhancer {
	return &Enhancer{completer: completer, cfg: cfg, cache: cache, logger: logger}
}

// Enabled reports whether a backend is configured.
func (e *Enhancer) Enabled() bool {
	return e != nil && e.completer != nil
}

// EnhanceAll rewrites the configured target categories in place. Categories
// outside the target list pass through untouched.
func (e *Enhancer) EnhanceAll(ctx context.Context, set *models.CategorizedSet, site models.SiteMetadata) {
	if !e.Enabled() {
		return
	}
	for _, cat := range e.cfg.Targets {
		pages := set.Pages(cat)
		if len(pages) == 0 {
			continue
		}
		e.logger.Info("enhancing category", "category", cat, "pages", len(pages))
		set.Replace(cat, e.enhanceCategory(ctx, cat, pages, site))
	}
}

func (e *Enhancer) enhanceCategory(ctx context.Context, cat models.Category, pages []*models.DisplayPage, site models.SiteMetadata) []*models.DisplayPage {
	batchSize := e.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	out := make([]*models.DisplayPage, 0, len(pages))
	for i := 0; i < len(pages); i += batchSize {
		end := i + batchSize
		if end > len(pages) {
			end = len(pages)
		}
		out = append(out, e.enhanceBatch(ctx, cat, pages[i:end], site)...)
	}
	return out
}

// enhanceBatch sends one batch and merges the response. Any error returns
// the batch unchanged; enhancement failures are never fatal.
func (e *Enhancer) enhanceBatch(ctx context.Context, cat models.Category, batch []*models.DisplayPage, site models.SiteMetadata) []*models.DisplayPage {
	prompt := buildPrompt(cat, batch, site)

	content, err := e.complete(ctx, prompt)
	if err != nil {
		e.logger.Warn("enhancement batch failed, keeping originals", "category", cat, "pages", len(batch), "error", err)
		return batch
	}

	var improvements []improvement
	if err := jsonrepair.UnmarshalArray(content, &improvements); err != nil {
		e.logger.Warn("enhancement response unparsable, keeping originals", "category", cat, "error", err)
		return batch
	}

	merged := make([]*models.DisplayPage, len(batch))
	for i, p := range batch {
		cp := *p
		merged[i] = &cp
	}
	for _, imp := range improvements {
		idx := imp.Index - 1
		if idx < 0 || idx >= len(merged) {
			continue
		}
		if imp.Title != "" {
			merged[idx].Title = imp.Title
		}
		if imp.Description != "" {
			merged[idx].Description = imp.Description
		}
	}
	e.logger.Info("enhanced batch", "category", cat, "improvements", len(improvements))
	return merged
}

func (e *Enhancer) complete(ctx context.Context, prompt string) (string, error) {
	if e.cache != nil {
		if data, ok := e.cache.Get(prompt); ok {
			return string(data), nil
		}
	}
	content, err := e.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return "", err
	}
	if e.cache != nil {
		if err := e.cache.Set(prompt, []byte(content)); err != nil {
			e.logger.Warn("failed to cache enhancement response", "error", err)
		}
	}
	return content, nil
}

func buildPrompt(cat models.Category, batch []*models.DisplayPage, site models.SiteMetadata) string {
	var b strings.Builder

	if cat == "Blog" {
		fmt.Fprintf(&b, `You are optimizing blog content for AI search engines (ChatGPT, Claude, Perplexity) and LLMS.txt files.
Site: %s

For each blog post below, provide an optimized title and description.

TITLE requirements:
- Clear, descriptive, and specific about what the article covers
- Optimized for AI search understanding
- Concise but informative (under 60 characters when possible)
- Remove generic words like "Blog |" or site branding

DESCRIPTION requirements:
- 15-25 words explaining what readers will learn
- Uses natural, complete sentences (no truncation marks)
- Actionable and informative

Blog posts:
`, site.SiteTitle)
	} else {
		fmt.Fprintf(&b, `You are optimizing content for AI search engines (ChatGPT, Claude, Perplexity) and LLMS.txt files.
Site: %s
Section: %s

For each page below, provide an optimized title and description.

TITLE requirements:
- Clear and specific about the service/solution offered
- Optimized for AI search understanding
- Concise but descriptive (under 60 characters when possible)
- Remove generic site branding or unnecessary words

DESCRIPTION requirements:
- 15-25 words stating the specific benefit or outcome
- Includes keywords AI would search for
- Specific, not generic

Pages:
`, site.SiteTitle, cat)
	}

	for i, page := range batch {
		desc := strings.ReplaceAll(page.Description, "[…]", "")
		desc = strings.ReplaceAll(desc, "[...]", "")
		desc = strings.ReplaceAll(desc, "…", "")
		desc = strings.TrimSpace(desc)
		if runes := []rune(desc); len(runes) > 100 {
			desc = string(runes[:100])
		}
		if desc == "" {
			desc = "None"
		}
		fmt.Fprintf(&b, "\n%d. Current Title: %s", i+1, page.Title)
		fmt.Fprintf(&b, "\n   Current Description: %s", desc)
		fmt.Fprintf(&b, "\n   URL: %s\n", page.URL)
	}

	b.WriteString(`
Return ONLY a JSON array with enhanced titles and descriptions:
[{"index": 1, "title": "...", "description": "..."}, {"index": 2, "title": "...", "description": "..."}, ...]

NO other text, NO trailing commas, NO truncation marks.`)

	return b.String()
}
