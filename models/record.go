// Package models defines the data structures shared across the pipeline:
// crawl records, display pages, categories, configuration, and results.
package models

// PageRecord is one row of a crawl CSV export after ingestion. URL is always
// non-empty; every other field defaults to "" when the export omits it.
type PageRecord struct {
	URL             string
	Title           string
	MetaDescription string
	H1              string
	StatusCode      int
	Indexability    string
	WordCount       int
	CrawlDepth      int
}

// DisplayPage is the output-facing form of a record: the title and
// description are guaranteed non-empty after normalization. Only the
// enhancer mutates these after creation.
type DisplayPage struct {
	URL         string `json:"url" yaml:"url"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// SiteMetadata describes the site as a whole, taken from the homepage row.
type SiteMetadata struct {
	SiteTitle   string `json:"site_title" yaml:"site_title"`
	SiteSummary string `json:"site_summary" yaml:"site_summary"`
	SiteURL     string `json:"site_url" yaml:"site_url"`
}
