package crawl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dtnitsch/llms-builder/models"
)

var (
	imageFileRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|svg|ico)(\?|$)`)
	assetFileRe = regexp.MustCompile(`(?i)\.(css|js|json|xml|pdf|woff|woff2|ttf|eot)(\?|$)`)
	homepageRe  = regexp.MustCompile(`^https?://[^/]+/?$`)
)

// AnalyzeQuality inspects the raw export and scores how well-filtered it
// looks, before any processing happens.
func AnalyzeQuality(records []*models.PageRecord) *models.QualityReport {
	r := &models.QualityReport{TotalURLs: len(records)}

	for _, rec := range records {
		if imageFileRe.MatchString(rec.URL) {
			r.ImageFiles++
		}
		if assetFileRe.MatchString(rec.URL) {
			r.AssetFiles++
		}
		if hubspotRe.MatchString(rec.URL) {
			r.HubSpotFiles++
		}
		if strings.TrimSpace(rec.Title) == "" {
			r.EmptyTitles++
		}
	}

	r.NonContentCount = r.ImageFiles + r.AssetFiles
	if r.TotalURLs > 0 {
		r.NonContentPercentage = float64(r.NonContentCount) / float64(r.TotalURLs) * 100
	}

	if r.ImageFiles > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d image files found", r.ImageFiles))
	}
	if r.AssetFiles > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d CSS/JS/PDF files found", r.AssetFiles))
	}
	// A handful of HubSpot URLs can be legitimate pages.
	if r.HubSpotFiles > 10 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d HubSpot system files found", r.HubSpotFiles))
	}
	if r.TotalURLs > 0 && float64(r.EmptyTitles) > float64(r.TotalURLs)*0.2 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d pages with no title", r.EmptyTitles))
	}

	score := 100.0
	score -= min(50, r.NonContentPercentage)
	if r.TotalURLs > 0 {
		score -= min(30, float64(r.EmptyTitles)/float64(r.TotalURLs)*30)
	}
	if score < 0 {
		score = 0
	}
	r.QualityScore = score
	r.AppearsFiltered = r.NonContentPercentage < 5

	return r
}

// ExportAdvice turns a quality report into human guidance for re-exporting
// the crawl with content-only filtering.
func ExportAdvice(r *models.QualityReport) string {
	if r.AppearsFiltered {
		return "Your CSV appears to be properly filtered."
	}

	var b strings.Builder
	b.WriteString("Your CSV contains non-content files. For better results:\n\n")
	b.WriteString("In Screaming Frog:\n")
	b.WriteString("1. Click the 'Internal' tab\n")
	b.WriteString("2. Use the Filter dropdown and select 'HTML'\n")
	b.WriteString("3. Re-export with File > Export\n\n")
	if r.ImageFiles > 0 {
		fmt.Fprintf(&b, "This will remove %d image files\n", r.ImageFiles)
	}
	if r.AssetFiles > 0 {
		fmt.Fprintf(&b, "This will remove %d CSS/JS/PDF files\n", r.AssetFiles)
	}
	fmt.Fprintf(&b, "\nThis will reduce your CSV from %d to approximately %d actual content pages.",
		r.TotalURLs, r.TotalURLs-r.NonContentCount)
	return b.String()
}

// ExtractSiteMetadata finds the homepage row for the document header,
// falling back to the first record when no homepage URL is present.
func ExtractSiteMetadata(records []*models.PageRecord) models.SiteMetadata {
	if len(records) == 0 {
		return models.SiteMetadata{SiteTitle: "Website"}
	}

	home := records[0]
	for _, rec := range records {
		if homepageRe.MatchString(rec.URL) {
			home = rec
			break
		}
	}

	title := strings.TrimSpace(home.Title)
	if title == "" {
		title = "Website"
	}
	return models.SiteMetadata{
		SiteTitle:   title,
		SiteSummary: strings.TrimSpace(home.MetaDescription),
		SiteURL:     strings.TrimSpace(home.URL),
	}
}
