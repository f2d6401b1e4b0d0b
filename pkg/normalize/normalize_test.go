package normalize

import (
	"testing"

	"github.com/dtnitsch/llms-builder/models"
)

func TestTitleFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"homepage bare", "https://example.com", "Homepage"},
		{"homepage slash", "https://example.com/", "Homepage"},
		{"single segment", "https://example.com/services/", "Services"},
		{"short final segment pulls parent", "https://example.com/services/knee-replacement", "Services Knee Replacement"},
		{"long final segment stands alone", "https://example.com/blog/understanding-chronic-back-pain-treatment", "Understanding Chronic Back Pain Treatment"},
		{"underscores become spaces", "https://example.com/patient_forms_archive_download_page", "Patient Forms Archive Download Page"},
		{"query and fragment stripped", "https://example.com/locations/downtown?utm_source=x#map", "Locations Downtown"},
		{"extension stripped", "https://example.com/forms/intake-packet.pdf", "Forms Intake Packet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TitleFromURL(tt.url)
			if got != tt.want {
				t.Errorf("TitleFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"bracket ellipsis stripped", "We treat a wide range of spine conditions […]", "We treat a wide range of spine conditions."},
		{"ascii bracket ellipsis stripped", "Our providers offer many advanced treatment options [...]", "Our providers offer many advanced treatment options."},
		{"five words stay unterminated", "Our providers offer many services [...]", "Our providers offer many services"},
		{"bare ellipsis stripped", "Learn more about our injection therapies…", "Learn more about our injection therapies."},
		{"short fragment left unterminated", "Knee pain relief", "Knee pain relief"},
		{"complete sentence untouched", "Call us today to schedule an appointment.", "Call us today to schedule an appointment."},
		{"question mark untouched", "What is PRP therapy?", "What is PRP therapy?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanDescription(tt.in)
			if got != tt.want {
				t.Errorf("CleanDescription(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Run("title falls back to URL path", func(t *testing.T) {
		page := Normalize(&models.PageRecord{
			URL:             "https://example.com/services/prp-injections",
			MetaDescription: "Platelet-rich plasma injections for joint pain and tendon injuries.",
		})
		if page.Title != "Services Prp Injections" {
			t.Errorf("Title = %q", page.Title)
		}
		if page.Description != "Platelet-rich plasma injections for joint pain and tendon injuries." {
			t.Errorf("Description = %q", page.Description)
		}
	})

	t.Run("description falls back to H1", func(t *testing.T) {
		page := Normalize(&models.PageRecord{
			URL:   "https://example.com/about/",
			Title: "About Our Practice",
			H1:    "Welcome to Our Clinic",
		})
		if page.Description != "Welcome to Our Clinic" {
			t.Errorf("Description = %q", page.Description)
		}
	})

	t.Run("description falls back to generic line", func(t *testing.T) {
		page := Normalize(&models.PageRecord{
			URL:   "https://example.com/locations/eastside",
			Title: "Eastside Office",
		})
		if page.Description != "Information about eastside office" {
			t.Errorf("Description = %q", page.Description)
		}
	})

	t.Run("never returns empty fields", func(t *testing.T) {
		page := Normalize(&models.PageRecord{URL: "https://example.com/"})
		if page.Title == "" || page.Description == "" {
			t.Errorf("got empty field: %+v", page)
		}
	})
}
