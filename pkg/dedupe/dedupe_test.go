package dedupe

import (
	"io"
	"log/slog"
	"testing"

	"github.com/dtnitsch/llms-builder/models"
)

func newTestDeduper() *Deduper {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return New(models.DefaultConfig().Dedupe, logger)
}

func TestDedupeURLs(t *testing.T) {
	d := newTestDeduper()

	records := []*models.PageRecord{
		{URL: "https://example.com/services/"},
		{URL: "https://example.com/services"},
		{URL: "https://Example.com/Services"},
		{URL: "https://example.com/about"},
	}

	out := d.DedupeURLs(records)
	if len(out) != 2 {
		t.Fatalf("got %d records, want 2", len(out))
	}
	// First occurrence survives with its original casing.
	if out[0].URL != "https://example.com/services/" {
		t.Errorf("kept %q, want first occurrence", out[0].URL)
	}
	if out[1].URL != "https://example.com/about" {
		t.Errorf("kept %q, want about page", out[1].URL)
	}
}

func TestDedupeTitles(t *testing.T) {
	d := newTestDeduper()

	t.Run("service URL beats location URL", func(t *testing.T) {
		records := []*models.PageRecord{
			{URL: "https://example.com/locations/eastside", Title: "Joint Care"},
			{URL: "https://example.com/services/joint-care", Title: "Joint Care"},
		}
		out := d.DedupeTitles(records)
		if len(out) != 1 {
			t.Fatalf("got %d records, want 1", len(out))
		}
		if out[0].URL != "https://example.com/services/joint-care" {
			t.Errorf("kept %q, want services URL", out[0].URL)
		}
	})

	t.Run("location URL with procedure title is demoted", func(t *testing.T) {
		records := []*models.PageRecord{
			{URL: "https://example.com/locations/cyst-removal-surgery", Title: "Cyst Removal Surgery"},
			{URL: "https://example.com/treatments/cyst-removal", Title: "Cyst Removal Surgery"},
		}
		out := d.DedupeTitles(records)
		if len(out) != 1 {
			t.Fatalf("got %d records, want 1", len(out))
		}
		if out[0].URL != "https://example.com/treatments/cyst-removal" {
			t.Errorf("kept %q, want treatments URL", out[0].URL)
		}
	})

	t.Run("specialty mismatch is demoted", func(t *testing.T) {
		records := []*models.PageRecord{
			{URL: "https://example.com/gastrointestinal-procedures/skin-check", Title: "Skin Exams"},
			{URL: "https://example.com/dermatology/skin-exams", Title: "Skin Exams"},
		}
		out := d.DedupeTitles(records)
		if len(out) != 1 {
			t.Fatalf("got %d records, want 1", len(out))
		}
		if out[0].URL != "https://example.com/dermatology/skin-exams" {
			t.Errorf("kept %q, want dermatology URL", out[0].URL)
		}
	})

	t.Run("description and depth break plain ties", func(t *testing.T) {
		records := []*models.PageRecord{
			{URL: "https://example.com/a", Title: "Overview"},
			{URL: "https://example.com/a/b/c", Title: "Overview", MetaDescription: "Detailed overview."},
		}
		out := d.DedupeTitles(records)
		if len(out) != 1 {
			t.Fatalf("got %d records, want 1", len(out))
		}
		if out[0].URL != "https://example.com/a/b/c" {
			t.Errorf("kept %q, want deeper URL with description", out[0].URL)
		}
	})

	t.Run("equal scores keep first seen", func(t *testing.T) {
		records := []*models.PageRecord{
			{URL: "https://example.com/first", Title: "Same"},
			{URL: "https://example.com/other", Title: "Same"},
		}
		out := d.DedupeTitles(records)
		if len(out) != 1 || out[0].URL != "https://example.com/first" {
			t.Errorf("kept %v, want first seen", out)
		}
	})

	t.Run("empty titles never grouped", func(t *testing.T) {
		records := []*models.PageRecord{
			{URL: "https://example.com/a", Title: ""},
			{URL: "https://example.com/b", Title: ""},
		}
		out := d.DedupeTitles(records)
		if len(out) != 2 {
			t.Errorf("got %d records, want 2", len(out))
		}
	})
}

func TestDedupeCountsDropped(t *testing.T) {
	d := newTestDeduper()

	records := []*models.PageRecord{
		{URL: "https://example.com/a", Title: "A"},
		{URL: "https://example.com/a/", Title: "A"},
		{URL: "https://example.com/b", Title: "A"},
		{URL: "https://example.com/c", Title: "C"},
	}
	out, dropped := d.Dedupe(records)
	if len(out) != 2 {
		t.Errorf("got %d records, want 2", len(out))
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
}
