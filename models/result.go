package models

// QualityReport summarizes how well-filtered a crawl export looks before
// any processing happens. Surfaced by the validate command and in stats.
type QualityReport struct {
	TotalURLs            int     `json:"total_urls" yaml:"total_urls"`
	ImageFiles           int     `json:"image_files" yaml:"image_files"`
	AssetFiles           int     `json:"asset_files" yaml:"asset_files"`
	HubSpotFiles         int     `json:"hubspot_files" yaml:"hubspot_files"`
	EmptyTitles          int     `json:"empty_titles" yaml:"empty_titles"`
	NonContentCount      int     `json:"non_content_count" yaml:"non_content_count"`
	NonContentPercentage float64 `json:"non_content_percentage" yaml:"non_content_percentage"`
	QualityScore         float64  `json:"quality_score" yaml:"quality_score"`
	Issues               []string `json:"issues,omitempty" yaml:"issues,omitempty"`
	AppearsFiltered      bool     `json:"appears_filtered" yaml:"appears_filtered"`
}

// Stats carries the per-run counters reported alongside the generated files.
type Stats struct {
	TotalRows        int              `json:"total_rows" yaml:"total_rows"`
	IndexablePages   int              `json:"indexable_pages" yaml:"indexable_pages"`
	ContentPages     int              `json:"content_pages" yaml:"content_pages"`
	UniquePages      int              `json:"unique_pages" yaml:"unique_pages"`
	DroppedDuplicates int             `json:"dropped_duplicates" yaml:"dropped_duplicates"`
	DroppedLanguage  int              `json:"dropped_language,omitempty" yaml:"dropped_language,omitempty"`
	FilledMetadata   int              `json:"filled_metadata,omitempty" yaml:"filled_metadata,omitempty"`
	Enhanced         bool             `json:"enhanced" yaml:"enhanced"`
	Categories       map[Category]int `json:"categories" yaml:"categories"`
	TopKeywords      []string         `json:"top_keywords,omitempty" yaml:"top_keywords,omitempty"`
	Quality          *QualityReport   `json:"quality,omitempty" yaml:"quality,omitempty"`
	TotalTimeSeconds float64          `json:"total_time_seconds" yaml:"total_time_seconds"`
}

// OutputFiles holds the paths written by a successful run.
type OutputFiles struct {
	TXTPath  string `json:"txt_path,omitempty" yaml:"txt_path,omitempty"`
	JSONPath string `json:"json_path,omitempty" yaml:"json_path,omitempty"`
}

// ProcessResult is the full outcome of one generation run, rendered to YAML
// or JSON for the caller. Success is false only for input-stage failures;
// everything downstream degrades into warnings and validation issues.
type ProcessResult struct {
	Success          bool        `json:"success" yaml:"success"`
	Error            string      `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType        string      `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	Stats            Stats       `json:"stats" yaml:"stats"`
	Files            OutputFiles `json:"files,omitempty" yaml:"files,omitempty"`
	ValidationIssues []string    `json:"validation_issues,omitempty" yaml:"validation_issues,omitempty"`
	Preview          string      `json:"preview,omitempty" yaml:"preview,omitempty"`
	RunID            int64       `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}
