package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/llms-builder/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

const fixtureCSV = `Address,Status Code,Indexability,Title 1,Meta Description 1,H1-1
https://example.com/,200,Indexable,Example Regenerative Medicine,Regenerative medicine for active adults.,Home
https://example.com/services/prp,200,Indexable,PRP Therapy,Platelet-rich plasma injections for joint pain.,PRP
https://example.com/services/prp/,200,Indexable,PRP Therapy,Platelet-rich plasma injections for joint pain.,PRP
https://example.com/locations/downtown,200,Indexable,Downtown Office,Visit our downtown office.,Downtown
https://example.com/blog/knee-pain,200,Indexable,Understanding Knee Pain,What causes knee pain and how to treat it.,Knee Pain
https://example.com/gone,404,Non-Indexable,,,
https://example.com/logo.png,200,Indexable,Logo,,
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crawl.csv")
	if err := os.WriteFile(path, []byte(fixtureCSV), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testPipeline(t *testing.T) (*Pipeline, *models.Config) {
	t.Helper()
	cfg := models.DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "exports")
	return New(cfg, nil, nil, testLogger()), cfg
}

func TestRunPreview(t *testing.T) {
	p, _ := testPipeline(t)
	result := p.Run(context.Background(), Options{
		CSVPath:     writeFixture(t),
		PreviewOnly: true,
	})

	if !result.Success {
		t.Fatalf("run failed: %s", result.Error)
	}
	if result.Preview == "" {
		t.Fatal("no preview produced")
	}
	if !strings.Contains(result.Preview, "# Example Regenerative Medicine") {
		t.Errorf("preview missing site title:\n%s", result.Preview)
	}
	if strings.Contains(result.Preview, "<!--") {
		t.Error("preview contains generation comments")
	}
	if result.Files.TXTPath != "" {
		t.Error("preview run should not write files")
	}

	// 7 rows; the 404 is not indexable; the .png is indexable but dropped
	// as non-content; the trailing-slash /services/prp/ collapses into its
	// duplicate.
	if result.Stats.TotalRows != 7 {
		t.Errorf("TotalRows = %d", result.Stats.TotalRows)
	}
	if result.Stats.IndexablePages != 6 {
		t.Errorf("IndexablePages = %d", result.Stats.IndexablePages)
	}
	if result.Stats.ContentPages != 5 {
		t.Errorf("ContentPages = %d", result.Stats.ContentPages)
	}
	if result.Stats.UniquePages != 4 {
		t.Errorf("UniquePages = %d", result.Stats.UniquePages)
	}
	if result.Stats.DroppedDuplicates != 1 {
		t.Errorf("DroppedDuplicates = %d", result.Stats.DroppedDuplicates)
	}
}

func TestRunWritesFiles(t *testing.T) {
	p, cfg := testPipeline(t)
	result := p.Run(context.Background(), Options{CSVPath: writeFixture(t)})

	if !result.Success {
		t.Fatalf("run failed: %s", result.Error)
	}
	if result.Files.TXTPath == "" || result.Files.JSONPath == "" {
		t.Fatalf("files = %+v", result.Files)
	}

	content, err := os.ReadFile(result.Files.TXTPath)
	if err != nil {
		t.Fatalf("cannot read output: %v", err)
	}
	text := string(content)
	for _, want := range []string{"# Example Regenerative Medicine", "## Services", "## Locations", "## Blog"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// Categories follow the priority order.
	if strings.Index(text, "## Services") > strings.Index(text, "## Blog") {
		t.Error("Services should precede Blog")
	}

	// The run index is written beside the exports.
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "index.yaml")); err != nil {
		t.Errorf("run index missing: %v", err)
	}
}

func TestRunCategorizesFixture(t *testing.T) {
	p, _ := testPipeline(t)
	result := p.Run(context.Background(), Options{CSVPath: writeFixture(t), PreviewOnly: true})

	if result.Stats.Categories["Services"] != 1 {
		t.Errorf("Services = %d", result.Stats.Categories["Services"])
	}
	if result.Stats.Categories["Locations"] != 1 {
		t.Errorf("Locations = %d", result.Stats.Categories["Locations"])
	}
	if result.Stats.Categories["Blog"] != 1 {
		t.Errorf("Blog = %d", result.Stats.Categories["Blog"])
	}
}

func TestRunFillsMissingMetadataBeforeFiltering(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Hidden Gem Therapy</title>`+
			`<meta name="description" content="Platelet-rich plasma for stubborn tendon injuries.">`+
			`</head><body><h1>Hidden Gem</h1></body></html>`)
	}))
	defer srv.Close()

	// One row has no title and no description; the content filter would
	// normally drop it, so it must be filled before filtering runs.
	csv := "Address,Status Code,Indexability,Title 1,Meta Description 1,H1-1\n" +
		"https://example.com/,200,Indexable,Example Regenerative Medicine,Regenerative medicine for active adults.,Home\n" +
		srv.URL + "/services/hidden-gem,200,Indexable,,,\n"
	path := filepath.Join(t.TempDir(), "crawl.csv")
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	p, _ := testPipeline(t)
	result := p.Run(context.Background(), Options{
		CSVPath:     path,
		FillMissing: true,
		PreviewOnly: true,
	})

	if !result.Success {
		t.Fatalf("run failed: %s", result.Error)
	}
	if result.Stats.FilledMetadata != 1 {
		t.Errorf("FilledMetadata = %d, want 1", result.Stats.FilledMetadata)
	}
	if result.Stats.ContentPages != 2 {
		t.Errorf("ContentPages = %d, want 2: filled page was dropped", result.Stats.ContentPages)
	}
	if result.Stats.Categories["Services"] != 1 {
		t.Errorf("Services = %d, want the filled page", result.Stats.Categories["Services"])
	}
	if !strings.Contains(result.Preview, "Hidden Gem Therapy") {
		t.Errorf("preview missing filled title:\n%s", result.Preview)
	}
}

const spreadFixtureCSV = `Address,Status Code,Indexability,Title 1,Meta Description 1,H1-1
https://example.com/,200,Indexable,Example Medical Group,Independent medical group.,Welcome
https://example.com/services/prp-injections,200,Indexable,PRP Injections,Platelet-rich plasma injections.,PRP
https://example.com/services/spinal-decompression,200,Indexable,Spinal Decompression,Non-surgical spinal decompression.,Decompression
https://example.com/areas-we-treat/sciatica,200,Indexable,Sciatica,Care for sciatica pain.,Sciatica
https://example.com/areas-we-treat/knee-pain,200,Indexable,Knee Pain,How we care for knee pain.,Knee Pain
https://example.com/blog/managing-back-pain,200,Indexable,Managing Back Pain,Practical ways to manage back pain.,Managing Back Pain
https://example.com/blog/prp-faq,200,Indexable,PRP Questions Answered,Common questions about PRP.,PRP Questions
https://example.com/providers/dr-jane-smith,200,Indexable,Dr. Jane Smith,Board-certified physiatrist.,Dr. Jane Smith
https://example.com/locations/downtown,200,Indexable,Downtown Office,Visit our downtown office.,Downtown
https://example.com/locations/eastside,200,Indexable,Eastside Office,Visit our eastside office.,Eastside
https://example.com/patient-resources/insurance,200,Indexable,Insurance,Insurance plans we accept.,Insurance
https://example.com/about/our-story,200,Indexable,Our Story,The history of our practice.,Our Story
`

func TestRunSpansAllCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawl.csv")
	if err := os.WriteFile(path, []byte(spreadFixtureCSV), 0644); err != nil {
		t.Fatal(err)
	}

	p, _ := testPipeline(t)
	result := p.Run(context.Background(), Options{CSVPath: path, PreviewOnly: true})

	if !result.Success {
		t.Fatalf("run failed: %s", result.Error)
	}
	if result.Stats.UniquePages != 12 {
		t.Errorf("UniquePages = %d, want 12", result.Stats.UniquePages)
	}
	if got := len(result.Stats.Categories); got != 7 {
		t.Errorf("categories = %d, want 7: %v", got, result.Stats.Categories)
	}

	want := map[models.Category]int{
		"About":             2,
		"Services":          2,
		"Areas Treated":     2,
		"Blog":              2,
		"Providers":         1,
		"Locations":         2,
		"Patient Resources": 1,
	}
	total := 0
	for cat, n := range want {
		if result.Stats.Categories[cat] != n {
			t.Errorf("%s = %d, want %d", cat, result.Stats.Categories[cat], n)
		}
		total += result.Stats.Categories[cat]
	}
	if total != 12 {
		t.Errorf("categorized pages = %d, want 12", total)
	}
	if result.Stats.Categories["Other"] != 0 {
		t.Errorf("Other = %d, want 0", result.Stats.Categories["Other"])
	}
}

func TestRunMissingFile(t *testing.T) {
	p, _ := testPipeline(t)
	result := p.Run(context.Background(), Options{CSVPath: "/nonexistent/crawl.csv"})

	if result.Success {
		t.Fatal("expected failure for missing file")
	}
	if result.ErrorType != "validation" {
		t.Errorf("ErrorType = %q", result.ErrorType)
	}
}

func TestRunNoIndexablePages(t *testing.T) {
	p, _ := testPipeline(t)
	path := filepath.Join(t.TempDir(), "crawl.csv")
	csv := "Address,Status Code,Indexability,Title 1,Meta Description 1\n" +
		"https://example.com/gone,404,Non-Indexable,Gone,\n"
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	result := p.Run(context.Background(), Options{CSVPath: path})
	if result.Success {
		t.Fatal("expected failure for zero indexable pages")
	}
	if result.ErrorType != "filter" {
		t.Errorf("ErrorType = %q", result.ErrorType)
	}
}

func TestUpdateRunIndexNewestFirst(t *testing.T) {
	dir := t.TempDir()
	base, err := time.Parse(time.RFC3339, "2026-08-01T10:00:00Z")
	if err != nil {
		t.Fatal(err)
	}

	for i, pages := range []int{10, 20} {
		info := RunInfo{
			Created:     base.Add(time.Duration(i) * time.Hour),
			CSVPath:     "crawl.csv",
			UniquePages: pages,
			Status:      "success",
		}
		if err := UpdateRunIndex(dir, info); err != nil {
			t.Fatalf("UpdateRunIndex: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "index.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	first := strings.Index(string(data), "unique_pages: 20")
	second := strings.Index(string(data), "unique_pages: 10")
	if first == -1 || second == -1 || first > second {
		t.Errorf("index not newest-first:\n%s", data)
	}
}
