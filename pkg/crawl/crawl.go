// Package crawl loads and filters website crawl CSV exports (Screaming
// Frog format): validation, decoding, indexability and content filtering,
// quality analysis, and site metadata extraction.
package crawl

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/llms-builder/internal/common"
	"github.com/dtnitsch/llms-builder/models"
	"golang.org/x/text/encoding/charmap"
)

// RequiredColumns must all be present in the export header.
var RequiredColumns = []string{
	"Address",
	"Status Code",
	"Indexability",
	"Title 1",
	"Meta Description 1",
}

const largeFileMB = 200

// Loader reads one crawl export.
type Loader struct {
	path   string
	logger *slog.Logger
}

func NewLoader(path string, logger *slog.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

// ValidateFile checks existence and extension before any parsing. A large
// file is a warning, not an error.
func (l *Loader) ValidateFile() error {
	info, err := os.Stat(l.path)
	if err != nil {
		return fmt.Errorf("file not found: %s", l.path)
	}
	if !strings.HasSuffix(strings.ToLower(l.path), ".csv") {
		return errors.New("file must be a CSV")
	}
	if mb := float64(info.Size()) / (1024 * 1024); mb > largeFileMB {
		l.logger.Warn("large file detected, processing may be slow", "size_mb", fmt.Sprintf("%.1f", mb))
	}
	return nil
}

// Load reads the whole export into records. Files that are not valid UTF-8
// are re-decoded as Windows-1252, the usual encoding of Excel re-saves.
func (l *Loader) Load() ([]*models.PageRecord, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("CSV file is empty")
	}

	if !utf8.Valid(data) {
		l.logger.Warn("file is not valid UTF-8, retrying as Windows-1252")
		decoded, decErr := charmap.Windows1252.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, fmt.Errorf("failed to decode CSV: %w", decErr)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	cell := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var records []*models.PageRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV row: %w", err)
		}
		url := common.SanitizeURL(cell(row, "Address"))
		if url == "" {
			continue
		}
		status, _ := strconv.Atoi(cell(row, "Status Code"))
		wordCount, _ := strconv.Atoi(cell(row, "Word Count"))
		crawlDepth, _ := strconv.Atoi(cell(row, "Crawl Depth"))
		records = append(records, &models.PageRecord{
			URL:             url,
			Title:           cell(row, "Title 1"),
			MetaDescription: cell(row, "Meta Description 1"),
			H1:              cell(row, "H1-1"),
			StatusCode:      status,
			Indexability:    cell(row, "Indexability"),
			WordCount:       wordCount,
			CrawlDepth:      crawlDepth,
		})
	}

	l.logger.Info("CSV loaded", "rows", len(records), "columns", len(header))
	return records, nil
}

// FilterIndexable keeps pages the crawler saw as live and indexable.
func FilterIndexable(records []*models.PageRecord) []*models.PageRecord {
	var out []*models.PageRecord
	for _, rec := range records {
		if rec.StatusCode == 200 && rec.Indexability == "Indexable" {
			out = append(out, rec)
		}
	}
	return out
}
