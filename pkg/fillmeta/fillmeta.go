// Package fillmeta backfills empty titles and descriptions by fetching the
// live page. It only visits URLs already present in the export, bounded to
// a configured number of fetches; per-URL failures are warnings.
package fillmeta

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/llms-builder/models"
	readability "github.com/go-shiori/go-readability"
)

const userAgent = "llmsb/1.0"

// Filler fetches pages and extracts the metadata the crawl export lacked.
type Filler struct {
	client *http.Client
	cfg    models.FillConfig
	logger *slog.Logger
}

func New(cfg models.FillConfig, logger *slog.Logger) *Filler {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Filler{
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
		logger: logger,
	}
}

// pageMeta is what one fetch can recover.
type pageMeta struct {
	Title       string
	Description string
	H1          string
}

func (f *Filler) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (f *Filler) extract(pageURL string, html []byte) pageMeta {
	var meta pageMeta

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err == nil {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
		if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
			meta.Description = strings.TrimSpace(desc)
		}
		meta.H1 = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	// Readability's excerpt is a usable description when the page has no
	// meta tag.
	if meta.Description == "" {
		if parsed, perr := url.Parse(pageURL); perr == nil {
			rp := readability.NewParser()
			article, rerr := rp.Parse(strings.NewReader(string(html)), parsed)
			if rerr == nil {
				meta.Description = strings.TrimSpace(article.Excerpt)
				if meta.Title == "" {
					meta.Title = strings.TrimSpace(article.Title)
				}
			}
		}
	}

	return meta
}

// Fill visits records missing both title and description, up to the
// configured fetch budget, and fills what it can recover. Returns how many
// records were updated.
func (f *Filler) Fill(ctx context.Context, records []*models.PageRecord) int {
	maxFetches := f.cfg.MaxFetches
	if maxFetches <= 0 {
		maxFetches = 25
	}

	fetched, filled := 0, 0
	for _, rec := range records {
		if strings.TrimSpace(rec.Title) != "" || strings.TrimSpace(rec.MetaDescription) != "" {
			continue
		}
		if fetched >= maxFetches {
			f.logger.Warn("fill budget exhausted, remaining records keep empty metadata", "budget", maxFetches)
			break
		}
		fetched++

		html, err := f.fetch(ctx, rec.URL)
		if err != nil {
			f.logger.Warn("failed to fetch page for metadata fill", "url", rec.URL, "error", err)
			continue
		}

		meta := f.extract(rec.URL, html)
		if meta.Title == "" && meta.Description == "" && meta.H1 == "" {
			continue
		}
		if rec.Title == "" {
			rec.Title = meta.Title
		}
		if rec.MetaDescription == "" {
			rec.MetaDescription = meta.Description
		}
		if rec.H1 == "" {
			rec.H1 = meta.H1
		}
		filled++
		f.logger.Info("filled page metadata", "url", rec.URL, "title", rec.Title != "")
	}
	return filled
}
