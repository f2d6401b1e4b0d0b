package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryPattern binds a category to the keywords that score toward it.
// Patterns are a list, not a map: configuration order is the tie-break
// order when two categories score the same.
type CategoryPattern struct {
	Category Category `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// EnhanceConfig controls the LLM title/description rewrite step.
type EnhanceConfig struct {
	Targets         []Category `yaml:"targets"`
	BatchSize       int        `yaml:"batch_size"`
	Model           string     `yaml:"model"`
	Temperature     float32    `yaml:"temperature"`
	MaxTokens       int        `yaml:"max_tokens"`
	CacheTTLMinutes int        `yaml:"cache_ttl_minutes"`
}

// LanguageConfig controls the optional foreign-language row filter.
type LanguageConfig struct {
	Enabled       bool    `yaml:"enabled"`
	MinConfidence float64 `yaml:"min_confidence"`
	SampleSize    int     `yaml:"sample_size"`
}

// DedupeConfig carries the heuristics of the duplicate-title resolver that
// are vertical-specific rather than structural. The defaults fit medical
// practice sites; other verticals can replace them.
type DedupeConfig struct {
	MismatchURLHint     string   `yaml:"mismatch_url_hint"`
	MismatchTitleHint   string   `yaml:"mismatch_title_hint"`
	ProcedureTitleHints []string `yaml:"procedure_title_hints"`
}

// FillConfig bounds the optional fetch-missing-metadata step.
type FillConfig struct {
	MaxFetches     int `yaml:"max_fetches"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Config is the full runtime configuration. Zero value is not usable;
// start from DefaultConfig or LoadConfig.
type Config struct {
	OutputDir           string            `yaml:"output_dir"`
	Patterns            []CategoryPattern `yaml:"patterns"`
	NewsIndicators      []string          `yaml:"news_indicators"`
	PriorityOrder       []Category        `yaml:"priority_order"`
	CoreServiceKeywords []string          `yaml:"core_service_keywords"`
	ProcedureKeywords   []string          `yaml:"procedure_keywords"`
	Enhance             EnhanceConfig     `yaml:"enhance"`
	Language            LanguageConfig    `yaml:"language"`
	Dedupe              DedupeConfig      `yaml:"dedupe"`
	Fill                FillConfig        `yaml:"fill"`
}

// DefaultConfig returns the built-in configuration. The pattern table and
// news indicators are tuned for medical practice sites, the most common
// input; everything is overridable from a YAML file.
func DefaultConfig() *Config {
	return &Config{
		OutputDir: "exports",
		Patterns: []CategoryPattern{
			{Category: "Services", Keywords: []string{
				"services", "therapy", "treatment", "procedure", "injection",
				"prp", "bmac", "decompression", "ablation", "stimulation",
				"surgery", "surgical", "operation", "removal", "repair",
			}},
			{Category: "Areas Treated", Keywords: []string{
				"areas-we-treat", "conditions", "pain", "sciatica", "shoulder",
				"hip", "back", "neck", "knee", "ankle", "elbow", "spine",
				"joint", "muscle", "tendon", "ligament",
			}},
			{Category: "Blog", Keywords: []string{
				"blog", "article", "post", "news", "education", "learn",
				"guide", "tips", "advice", "resource", "insights", "update",
				"announcement", "opens", "featured", "q&a", "interview",
			}},
			{Category: "Providers", Keywords: []string{
				"physician", "provider", "doctor", "team", "staff",
				"pa-c", "md", "do", "phd", "nurse", "therapist",
				"surgeon", "specialist", "expert",
			}},
			{Category: "Locations", Keywords: []string{
				"location", "office", "clinic", "contact", "directions",
				"address", "map", "hours", "parking", "facility",
			}},
			{Category: "Patient Resources", Keywords: []string{
				"patient", "form", "insurance", "download", "faq",
				"appointment", "schedule", "privacy", "policy", "rights",
				"billing", "payment", "testimonial", "review",
				"request-appointment", "payment-plan",
			}},
			{Category: "About", Keywords: []string{
				"about", "mission", "vision", "values", "history",
				"career", "join", "team", "culture", "story",
				"welcome", "introduction", "who-we-are",
			}},
		},
		NewsIndicators: []string{
			"new surgical center opens",
			"opens flagship",
			"featured in forbes",
			"announcement",
			"press release",
			"news:",
		},
		PriorityOrder: []Category{
			"About", "Services", "Areas Treated", "Providers", "Locations",
			"Patient Resources", "Before & After", "Blog",
		},
		CoreServiceKeywords: []string{
			"dermatology", "plastic surgery", "med spa", "medical spa",
			"primary care", "orthopedics", "cardiology", "gastroenterology",
		},
		ProcedureKeywords: []string{
			"botox", "filler", "laser", "peel", "facelift", "liposuction",
			"microneedling", "coolsculpting", "injection", "implant",
		},
		Enhance: EnhanceConfig{
			Targets:         []Category{"Services", "Providers", "Locations", "Blog", "Before & After"},
			BatchSize:       10,
			Model:           "gpt-3.5-turbo",
			Temperature:     0.7,
			MaxTokens:       800,
			CacheTTLMinutes: 0,
		},
		Language: LanguageConfig{
			Enabled:       false,
			MinConfidence: 0.9,
			SampleSize:    40,
		},
		Dedupe: DedupeConfig{
			MismatchURLHint:   "gastrointestinal-procedures",
			MismatchTitleHint: "skin",
			ProcedureTitleHints: []string{
				"surgery", "procedure", "treatment", "therapy", "injection",
			},
		},
		Fill: FillConfig{
			MaxFetches:     25,
			TimeoutSeconds: 10,
		},
	}
}

// LoadConfig reads a YAML file and merges it over the defaults. Custom
// patterns merge per category: an existing category gets its keyword list
// replaced, a new category is appended after the defaults. Scalar fields
// override only when set. An empty path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var user Config
	if err := yaml.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.mergePatterns(user.Patterns)
	if user.OutputDir != "" {
		cfg.OutputDir = user.OutputDir
	}
	if len(user.NewsIndicators) > 0 {
		cfg.NewsIndicators = user.NewsIndicators
	}
	if len(user.PriorityOrder) > 0 {
		cfg.PriorityOrder = user.PriorityOrder
	}
	if len(user.CoreServiceKeywords) > 0 {
		cfg.CoreServiceKeywords = user.CoreServiceKeywords
	}
	if len(user.ProcedureKeywords) > 0 {
		cfg.ProcedureKeywords = user.ProcedureKeywords
	}
	if len(user.Enhance.Targets) > 0 {
		cfg.Enhance.Targets = user.Enhance.Targets
	}
	if user.Enhance.BatchSize > 0 {
		cfg.Enhance.BatchSize = user.Enhance.BatchSize
	}
	if user.Enhance.Model != "" {
		cfg.Enhance.Model = user.Enhance.Model
	}
	if user.Enhance.Temperature > 0 {
		cfg.Enhance.Temperature = user.Enhance.Temperature
	}
	if user.Enhance.MaxTokens > 0 {
		cfg.Enhance.MaxTokens = user.Enhance.MaxTokens
	}
	if user.Enhance.CacheTTLMinutes > 0 {
		cfg.Enhance.CacheTTLMinutes = user.Enhance.CacheTTLMinutes
	}
	if user.Language.Enabled {
		cfg.Language.Enabled = true
	}
	if user.Language.MinConfidence > 0 {
		cfg.Language.MinConfidence = user.Language.MinConfidence
	}
	if user.Language.SampleSize > 0 {
		cfg.Language.SampleSize = user.Language.SampleSize
	}
	if user.Dedupe.MismatchURLHint != "" {
		cfg.Dedupe.MismatchURLHint = user.Dedupe.MismatchURLHint
	}
	if user.Dedupe.MismatchTitleHint != "" {
		cfg.Dedupe.MismatchTitleHint = user.Dedupe.MismatchTitleHint
	}
	if len(user.Dedupe.ProcedureTitleHints) > 0 {
		cfg.Dedupe.ProcedureTitleHints = user.Dedupe.ProcedureTitleHints
	}
	if user.Fill.MaxFetches > 0 {
		cfg.Fill.MaxFetches = user.Fill.MaxFetches
	}
	if user.Fill.TimeoutSeconds > 0 {
		cfg.Fill.TimeoutSeconds = user.Fill.TimeoutSeconds
	}

	return cfg, nil
}

func (c *Config) mergePatterns(custom []CategoryPattern) {
	for _, p := range custom {
		replaced := false
		for i := range c.Patterns {
			if c.Patterns[i].Category == p.Category {
				c.Patterns[i].Keywords = p.Keywords
				replaced = true
				break
			}
		}
		if !replaced {
			c.Patterns = append(c.Patterns, p)
		}
	}
}

// PatternFor returns the keyword list of one category, or nil.
func (c *Config) PatternFor(cat Category) []string {
	for _, p := range c.Patterns {
		if p.Category == cat {
			return p.Keywords
		}
	}
	return nil
}
