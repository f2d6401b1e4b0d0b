// Package classify assigns each crawl record to exactly one category using
// layered rules: news overrides, then structural URL rules, then weighted
// keyword scoring, then the "Other" fallback. Classification is total and
// cannot fail.
package classify

import (
	"regexp"
	"strings"

	"github.com/dtnitsch/llms-builder/models"
	"github.com/dtnitsch/llms-builder/pkg/normalize"
)

var (
	segmentSplitRe = regexp.MustCompile(`[/\-_]`)
	schemeHostRe   = regexp.MustCompile(`^https?://[^/]+`)
)

var beforeAfterIndicators = []string{"before-and-after", "transformation", "results", "gallery"}

// Classifier applies the configured pattern table to pages.
type Classifier struct {
	cfg *models.Config
}

func New(cfg *models.Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// normalizeURL lowercases and strips the trailing slash, matching the key
// form used by the deduplicator.
func normalizeURL(url string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(url), "/"))
}

// urlSegments splits a URL path on /-_ and keeps segments longer than two
// characters. Short fragments ("of", "to", "dr") score nothing.
func urlSegments(url string) []string {
	path := schemeHostRe.ReplaceAllString(url, "")
	var out []string
	for _, s := range segmentSplitRe.Split(path, -1) {
		if len(s) > 2 {
			out = append(out, s)
		}
	}
	return out
}

// Categorize returns the category for one record.
func (c *Classifier) Categorize(rec *models.PageRecord) models.Category {
	url := normalizeURL(rec.URL)
	title := strings.ToLower(rec.Title)
	meta := strings.ToLower(rec.MetaDescription)
	h1 := strings.ToLower(rec.H1)

	// News and announcement pages masquerade as service or location pages;
	// check the title and meta before anything else.
	for _, indicator := range c.cfg.NewsIndicators {
		if strings.Contains(title, indicator) || strings.Contains(meta, indicator) {
			return "Blog"
		}
	}

	// Structural URL rules are definitive when they match. Order matters:
	// first true predicate wins.
	switch {
	case strings.Contains(url, "/blog/"):
		return "Blog"
	case strings.Contains(url, "/patient-information/") || strings.Contains(url, "/patient-resources/") ||
		strings.Contains(url, "/testimonial"):
		return "Patient Resources"
	case strings.Contains(url, "/locations/"):
		return "Locations"
	case strings.Contains(url, "/physicians/") || strings.Contains(url, "/providers/"):
		return "Providers"
	case strings.Contains(url, "/services/"):
		return "Services"
	case hasBeforeAfterIndicator(url, title):
		return "Before & After"
	}

	// Weighted keyword scoring over the combined text and URL segments.
	// URL segments weigh more: the path is deliberate, body text is noisy.
	combined := url + " " + title + " " + meta + " " + h1
	segments := urlSegments(url)

	best := models.CategoryOther
	bestScore := 0
	for _, p := range c.cfg.Patterns {
		score := 0
		for _, kw := range p.Keywords {
			kw = strings.ToLower(kw)
			if strings.Contains(combined, kw) {
				score += 2
			}
			for _, seg := range segments {
				if strings.Contains(seg, kw) {
					score += 3
				}
			}
		}
		// Strictly-greater keeps the first configured category on ties.
		if score > bestScore {
			best = p.Category
			bestScore = score
		}
	}
	return best
}

func hasBeforeAfterIndicator(url, title string) bool {
	for _, ind := range beforeAfterIndicators {
		if strings.Contains(url, ind) || strings.Contains(title, ind) {
			return true
		}
	}
	return false
}

// CategorizeAll classifies and normalizes every record into a categorized
// set, preserving input order within each category.
func (c *Classifier) CategorizeAll(records []*models.PageRecord) *models.CategorizedSet {
	set := models.NewCategorizedSet()
	for _, rec := range records {
		set.Add(c.Categorize(rec), normalize.Normalize(rec))
	}
	return set
}
