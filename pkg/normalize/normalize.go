// Package normalize derives display-ready titles and descriptions from raw
// crawl records. All functions are pure.
package normalize

import (
	"regexp"
	"strings"

	"github.com/dtnitsch/llms-builder/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	schemeHostRe = regexp.MustCompile(`^https?://[^/]+`)
	queryFragRe  = regexp.MustCompile(`[?#].*$`)
	extensionRe  = regexp.MustCompile(`\.[^/]+$`)
	titleCaser   = cases.Title(language.English)
)

// TitleFromURL builds a readable title from a URL path when the page has no
// title of its own. The homepage becomes "Homepage"; a URL with no usable
// segments becomes "Page".
func TitleFromURL(url string) string {
	path := schemeHostRe.ReplaceAllString(url, "")
	path = queryFragRe.ReplaceAllString(path, "")
	path = extensionRe.ReplaceAllString(path, "")

	if path == "" || path == "/" {
		return "Homepage"
	}

	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return "Page"
	}

	// A short final segment alone is often ambiguous ("overview", "team");
	// pull in the parent segment for context.
	parts := []string{segments[len(segments)-1]}
	if len(segments) >= 2 && len(segments[len(segments)-1]) < 20 {
		parts = segments[len(segments)-2:]
	}

	title := strings.Join(parts, " ")
	title = strings.ReplaceAll(title, "-", " ")
	title = strings.ReplaceAll(title, "_", " ")
	return titleCaser.String(title)
}

// CleanDescription strips truncation marks left by crawlers and closes
// sentences that were cut mid-thought.
func CleanDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}
	desc = strings.ReplaceAll(desc, "[…]", "")
	desc = strings.ReplaceAll(desc, "[...]", "")
	desc = strings.TrimSpace(desc)
	desc = strings.ReplaceAll(desc, "…", "")
	desc = strings.TrimSpace(desc)

	if desc != "" && !strings.ContainsRune(".!?", rune(desc[len(desc)-1])) {
		if len(strings.Fields(desc)) > 5 {
			desc += "."
		}
	}
	return desc
}

// Normalize converts a record into its display form. Title falls back to
// the URL path; description falls back to the H1, then to a generic line.
func Normalize(rec *models.PageRecord) *models.DisplayPage {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = TitleFromURL(rec.URL)
	}

	description := CleanDescription(rec.MetaDescription)
	if description == "" {
		if h1 := strings.TrimSpace(rec.H1); h1 != "" {
			description = h1
		} else {
			description = "Information about " + strings.ToLower(title)
		}
	}

	return &models.DisplayPage{
		URL:         rec.URL,
		Title:       title,
		Description: description,
	}
}
