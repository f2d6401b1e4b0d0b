// Package dedupe removes duplicate crawl records in two passes: exact URL
// duplicates first, then records sharing a title, where a scoring pass keeps
// the best page of each group.
package dedupe

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/dtnitsch/llms-builder/models"
)

var schemeHostRe = regexp.MustCompile(`^https?://[^/]+`)

// Deduper applies URL and title deduplication with configurable heuristics.
type Deduper struct {
	cfg    models.DedupeConfig
	logger *slog.Logger
}

func New(cfg models.DedupeConfig, logger *slog.Logger) *Deduper {
	return &Deduper{cfg: cfg, logger: logger}
}

// normalizeKey produces the comparison key for a URL. The original casing
// of the kept record is preserved; only the key is lowercased.
func normalizeKey(url string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(url), "/"))
}

// DedupeURLs keeps the first record for each normalized URL.
func (d *Deduper) DedupeURLs(records []*models.PageRecord) []*models.PageRecord {
	seen := make(map[string]bool, len(records))
	var out []*models.PageRecord
	for _, rec := range records {
		key := normalizeKey(rec.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}

// score ranks one record within a duplicate-title group. Higher is better.
func (d *Deduper) score(rec *models.PageRecord, title string) float64 {
	url := strings.ToLower(rec.URL)
	titleLower := strings.ToLower(title)

	var s float64
	switch {
	case strings.Contains(url, "/services/"):
		s = 10
	case d.cfg.MismatchURLHint != "" && strings.Contains(url, d.cfg.MismatchURLHint) &&
		d.cfg.MismatchTitleHint != "" && strings.Contains(titleLower, d.cfg.MismatchTitleHint):
		// The URL says one specialty, the title says another: almost
		// certainly a miscategorized page.
		s = -10
	case strings.Contains(url, "/locations") && d.titleLooksLikeProcedure(titleLower):
		s = -20
	case strings.Contains(url, "/procedures/") || strings.Contains(url, "/treatments/"):
		s = 8
	}

	if strings.TrimSpace(rec.MetaDescription) != "" {
		s += 2
	}

	path := schemeHostRe.ReplaceAllString(url, "")
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			s += 0.5
		}
	}
	return s
}

func (d *Deduper) titleLooksLikeProcedure(titleLower string) bool {
	for _, hint := range d.cfg.ProcedureTitleHints {
		if strings.Contains(titleLower, strings.ToLower(hint)) {
			return true
		}
	}
	return false
}

// DedupeTitles keeps the highest-scoring record of each duplicate-title
// group; ties keep the first-seen record. Records with empty titles are
// never grouped. Output preserves input order.
func (d *Deduper) DedupeTitles(records []*models.PageRecord) []*models.PageRecord {
	groups := make(map[string][]*models.PageRecord)
	for _, rec := range records {
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			continue
		}
		groups[title] = append(groups[title], rec)
	}

	drop := make(map[*models.PageRecord]bool)
	for title, group := range groups {
		if len(group) < 2 {
			continue
		}
		best := group[0]
		bestScore := d.score(best, title)
		for _, rec := range group[1:] {
			if s := d.score(rec, title); s > bestScore {
				best = rec
				bestScore = s
			}
		}
		for _, rec := range group {
			if rec != best {
				drop[rec] = true
			}
		}
		d.logger.Info("resolved duplicate title", "title", title, "kept", best.URL, "dropped", len(group)-1)
	}

	var out []*models.PageRecord
	for _, rec := range records {
		if !drop[rec] {
			out = append(out, rec)
		}
	}
	return out
}

// Dedupe runs both passes and returns the surviving records plus the count
// of dropped duplicates.
func (d *Deduper) Dedupe(records []*models.PageRecord) ([]*models.PageRecord, int) {
	byURL := d.DedupeURLs(records)
	byTitle := d.DedupeTitles(byURL)
	return byTitle, len(records) - len(byTitle)
}
