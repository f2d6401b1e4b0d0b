// Package langfilter drops crawl rows written in a different language than
// the rest of the site. Multilingual exports otherwise pollute the index
// with duplicate pages in every locale.
package langfilter

import (
	"log/slog"
	"strings"

	"github.com/dtnitsch/llms-builder/models"
	"github.com/pemistahl/lingua-go"
)

// Text shorter than this carries too little signal to classify reliably.
const minTextLength = 20

// Filter detects the dominant language of a record set and removes rows
// confidently detected as another language.
type Filter struct {
	detector lingua.LanguageDetector
	cfg      models.LanguageConfig
	logger   *slog.Logger
}

func New(cfg models.LanguageConfig, logger *slog.Logger) *Filter {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllSpokenLanguages().
		Build()
	return &Filter{detector: detector, cfg: cfg, logger: logger}
}

func recordText(rec *models.PageRecord) string {
	return strings.TrimSpace(rec.Title + " " + rec.MetaDescription)
}

// DominantLanguage samples the first records and returns the most common
// detected language. The bool is false when nothing was detectable.
func (f *Filter) DominantLanguage(records []*models.PageRecord) (lingua.Language, bool) {
	sampleSize := f.cfg.SampleSize
	if sampleSize <= 0 {
		sampleSize = 40
	}

	votes := make(map[lingua.Language]int)
	sampled := 0
	for _, rec := range records {
		if sampled >= sampleSize {
			break
		}
		text := recordText(rec)
		if len(text) < minTextLength {
			continue
		}
		if lang, ok := f.detector.DetectLanguageOf(text); ok {
			votes[lang]++
			sampled++
		}
	}

	var best lingua.Language
	bestVotes := 0
	for lang, n := range votes {
		if n > bestVotes {
			best = lang
			bestVotes = n
		}
	}
	return best, bestVotes > 0
}

// Apply returns the records in the dominant language plus the count of
// dropped rows. A row is dropped only when detection is confident; short
// or ambiguous text always passes through.
func (f *Filter) Apply(records []*models.PageRecord) ([]*models.PageRecord, int) {
	dominant, ok := f.DominantLanguage(records)
	if !ok {
		f.logger.Warn("could not determine dominant language, skipping language filter")
		return records, 0
	}
	f.logger.Info("dominant language detected", "language", dominant.String())

	minConfidence := f.cfg.MinConfidence
	if minConfidence <= 0 {
		minConfidence = 0.9
	}

	var out []*models.PageRecord
	dropped := 0
	for _, rec := range records {
		text := recordText(rec)
		if len(text) < minTextLength {
			out = append(out, rec)
			continue
		}
		lang, ok := f.detector.DetectLanguageOf(text)
		if !ok || lang == dominant {
			out = append(out, rec)
			continue
		}
		confidence := f.detector.ComputeLanguageConfidence(text, lang)
		if confidence > minConfidence {
			f.logger.Info("dropping foreign-language page", "url", rec.URL, "language", lang.String(), "confidence", confidence)
			dropped++
			continue
		}
		out = append(out, rec)
	}
	return out, dropped
}
