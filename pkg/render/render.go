// Package render generates the LLMS.txt Markdown document and its JSON
// companion, validates the output, and produces previews.
package render

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dtnitsch/llms-builder/models"
	"github.com/dtnitsch/llms-builder/pkg/storage"
)

const jsonVersion = "1.0"

// Markdown renders the full document. includeStats controls the generation
// comments, which previews suppress so they stay copy-paste clean.
func Markdown(site models.SiteMetadata, sections []models.Section, includeStats bool) string {
	var lines []string

	title := site.SiteTitle
	if title == "" {
		title = "Website"
	}
	lines = append(lines, "# "+title, "")

	if site.SiteSummary != "" {
		lines = append(lines, "> "+site.SiteSummary, "")
	}

	if includeStats {
		total := 0
		for _, s := range sections {
			total += len(s.Pages)
		}
		lines = append(lines,
			fmt.Sprintf("<!-- Generated on %s -->", time.Now().Format("2006-01-02")),
			fmt.Sprintf("<!-- Total pages: %d -->", total),
			"")
	}

	for _, s := range sections {
		if len(s.Pages) == 0 {
			continue
		}
		lines = append(lines, "## "+string(s.Category), "")
		for _, p := range s.Pages {
			pageTitle := p.Title
			if pageTitle == "" {
				pageTitle = "Untitled"
			}
			if p.Description != "" {
				lines = append(lines, fmt.Sprintf("- [%s](%s): %s", pageTitle, p.URL, p.Description))
			} else {
				lines = append(lines, fmt.Sprintf("- [%s](%s)", pageTitle, p.URL))
			}
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

type jsonMetadata struct {
	SiteTitle   string `json:"site_title"`
	SiteSummary string `json:"site_summary"`
	SiteURL     string `json:"site_url"`
	GeneratedAt string `json:"generated_at"`
	Version     string `json:"version"`
}

type jsonDocument struct {
	Metadata jsonMetadata     `json:"metadata"`
	Sections []models.Section `json:"sections"`
	Stats    *models.Stats    `json:"stats,omitempty"`
}

// JSON renders the machine-readable companion document.
func JSON(site models.SiteMetadata, sections []models.Section, stats *models.Stats) ([]byte, error) {
	doc := jsonDocument{
		Metadata: jsonMetadata{
			SiteTitle:   site.SiteTitle,
			SiteSummary: site.SiteSummary,
			SiteURL:     site.SiteURL,
			GeneratedAt: time.Now().Format(time.RFC3339),
			Version:     jsonVersion,
		},
		Sections: sections,
		Stats:    stats,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON document: %w", err)
	}
	return data, nil
}

var linkLineRe = regexp.MustCompile(`^- \[([^\]]+)\]\(([^)]+)\)(?::\s*(.*))?$`)

// Validate checks the rendered document for structural problems. Issues are
// warnings, never errors; an empty slice means the document looks sound.
func Validate(content string) []string {
	var issues []string
	lines := strings.Split(content, "\n")

	hasH1, hasH2 := false, false
	linkCount := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "# ") {
			hasH1 = true
		}
		if strings.HasPrefix(line, "## ") {
			hasH2 = true
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "- [") {
			linkCount++
			if !strings.Contains(trimmed, "](") {
				snippet := trimmed
				if len(snippet) > 50 {
					snippet = snippet[:50]
				}
				issues = append(issues, fmt.Sprintf("Malformed link (missing ']('): %s...", snippet))
			}
		}
	}

	if !hasH1 {
		issues = append(issues, "Missing H1 header (site title)")
	}
	if !hasH2 {
		issues = append(issues, "No sections found (H2 headers)")
	}
	if linkCount == 0 {
		issues = append(issues, "No links found in output")
	}
	if len(content) < 100 {
		issues = append(issues, "Output seems too short")
	}
	return issues
}

// Preview renders the document without generation comments, truncated to
// maxLines with an indicator of what was cut.
func Preview(site models.SiteMetadata, sections []models.Section, maxLines int) string {
	content := Markdown(site, sections, false)
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}
	out := append([]string{}, lines[:maxLines]...)
	out = append(out, "...", fmt.Sprintf("[%d more lines]", len(lines)-maxLines))
	return strings.Join(out, "\n")
}

// Link is one parsed entry of a rendered document.
type Link struct {
	Title       string
	URL         string
	Description string
}

// ParseLinks re-parses link lines out of a rendered document. Round-trips
// with Markdown: every page emitted comes back with the same title, URL,
// and description.
func ParseLinks(content string) []Link {
	var links []Link
	for _, line := range strings.Split(content, "\n") {
		m := linkLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		links = append(links, Link{Title: m[1], URL: m[2], Description: m[3]})
	}
	return links
}

// SaveFiles writes {prefix}.txt and {prefix}.json into outputDir, creating
// it if needed, and returns the written paths.
func SaveFiles(site models.SiteMetadata, sections []models.Section, stats *models.Stats, outputDir, prefix string) (models.OutputFiles, error) {
	store := &storage.Storage{}
	if err := store.EnsureDir(outputDir); err != nil {
		return models.OutputFiles{}, err
	}

	txtPath := filepath.Join(outputDir, prefix+".txt")
	if err := store.SaveFile(txtPath, []byte(Markdown(site, sections, true))); err != nil {
		return models.OutputFiles{}, err
	}

	jsonData, err := JSON(site, sections, stats)
	if err != nil {
		return models.OutputFiles{TXTPath: txtPath}, err
	}
	jsonPath := filepath.Join(outputDir, prefix+".json")
	if err := store.SaveFile(jsonPath, jsonData); err != nil {
		return models.OutputFiles{TXTPath: txtPath}, err
	}

	return models.OutputFiles{TXTPath: txtPath, JSONPath: jsonPath}, nil
}
