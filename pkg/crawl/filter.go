package crawl

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/dtnitsch/llms-builder/models"
)

var nonContentExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".ico",
	".css", ".js", ".json", ".xml", ".pdf",
	".woff", ".woff2", ".ttf", ".eot",
	".mp4", ".mp3", ".avi", ".mov",
	".zip", ".tar", ".gz",
}

var (
	hubspotRe = regexp.MustCompile(`/(hs-fs|hub_generated|_hcms|hs)/`)

	cmsJunkRes = []*regexp.Regexp{
		regexp.MustCompile(`/tag/`),
		regexp.MustCompile(`/category/`),
		regexp.MustCompile(`/author/`),
		regexp.MustCompile(`/page/\d+`),
		regexp.MustCompile(`/\d{4}/\d{2}/`), // date archives like /2024/05/
		regexp.MustCompile(`/feed/`),
		regexp.MustCompile(`/wp-`),
		regexp.MustCompile(`/hs-`),
	}

	blogArchiveTitleRes = []*regexp.Regexp{
		regexp.MustCompile(`Blog\s*\|\s*(Admin|Dr\.|Awards|Tags?|Categories?|Archives?|Health|News|Media|Hernia|Melanoma|Pain)`),
		regexp.MustCompile(`^\s*[^|]+Blog\s*$`),
		regexp.MustCompile(`\|\s*Latest news for`),
	}
)

func hasNonContentExtension(url string) bool {
	lower := strings.ToLower(url)
	for _, ext := range nonContentExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}

func isCMSJunk(url string) bool {
	for _, re := range cmsJunkRes {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

func isBlogArchiveTitle(title string) bool {
	for _, re := range blogArchiveTitleRes {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

// FilterContent drops assets, CMS system pages, untitled pages, and blog
// archive listings. The survivors are the pages worth indexing.
func FilterContent(records []*models.PageRecord, logger *slog.Logger) []*models.PageRecord {
	var out []*models.PageRecord
	for _, rec := range records {
		switch {
		case hasNonContentExtension(rec.URL):
		case hubspotRe.MatchString(rec.URL):
		case isCMSJunk(rec.URL):
		case strings.TrimSpace(rec.Title) == "":
		case isBlogArchiveTitle(rec.Title):
		default:
			out = append(out, rec)
		}
	}
	logger.Info("filtered non-content pages", "dropped", len(records)-len(out), "kept", len(out))
	return out
}
