package model

import (
	"fmt"
	"runtime"
	"time"
)

// Config holds run configuration. Built once at startup, read-only afterwards.
type Config struct {
	Workers        int             `yaml:"workers" mapstructure:"workers"`
	ReferenceDate  string          `yaml:"reference_date" mapstructure:"reference_date"` // YYYY-MM-DD, empty = today
	InquiryTimeout time.Duration   `yaml:"inquiry_timeout" mapstructure:"inquiry_timeout"`
	Text           TextConfig      `yaml:"text" mapstructure:"text"`
	Model          ModelConfig     `yaml:"model" mapstructure:"model"`
	Cache          CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Output         OutputConfig    `yaml:"output" mapstructure:"output"`
	Logging        LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	Fields         []FieldOverride `yaml:"fields" mapstructure:"fields"`
	Dictionaries   Dictionaries    `yaml:"dictionaries" mapstructure:"dictionaries"`
}

// TextConfig bounds the accepted inquiry length in characters
type TextConfig struct {
	MinLength int `yaml:"min_length" mapstructure:"min_length"`
	MaxLength int `yaml:"max_length" mapstructure:"max_length"`
}

// ModelConfig selects the entity recognition backend
type ModelConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // prose, none
}

// CacheConfig controls record memoisation
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig controls the report artifact
type OutputConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Format string `yaml:"format" mapstructure:"format"` // xlsx, csv, json
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// Dictionaries are the gazetteers used by the pattern extractor
type Dictionaries struct {
	Destinations    []string `yaml:"destinations" mapstructure:"destinations"`
	Cities          []string `yaml:"cities" mapstructure:"cities"`
	Activities      []string `yaml:"activities" mapstructure:"activities"`
	SpecialRequests []string `yaml:"special_requests" mapstructure:"special_requests"`
	HinglishMarkers []string `yaml:"hinglish_markers" mapstructure:"hinglish_markers"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Workers:        runtime.NumCPU(),
		InquiryTimeout: 0,
		Text: TextConfig{
			MinLength: 10,
			MaxLength: 10000,
		},
		Model: ModelConfig{
			Backend: "prose",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Output: OutputConfig{
			Path:   "inquiry_report.xlsx",
			Format: "xlsx",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Dictionaries: DefaultDictionaries(),
	}
}

// DefaultDictionaries returns the built-in gazetteers
func DefaultDictionaries() Dictionaries {
	return Dictionaries{
		Destinations: []string{
			"thailand", "bangkok", "phuket", "krabi", "pattaya", "maldives", "goa", "kerala",
			"kashmir", "europe", "switzerland", "shimla", "manali", "rajasthan", "singapore",
			"dubai", "bali", "nepal", "sri lanka", "bhutan", "mauritius", "paris", "london",
			"cochin", "kochi", "munnar", "periyar", "alleppey", "kufri", "darjeeling", "ooty",
			"coorg", "jaipur", "udaipur", "jodhpur", "agra", "varanasi", "rishikesh", "leh",
			"ladakh", "andaman", "himachal pradesh", "vietnam", "malaysia",
			"गोवा", "केरल", "कश्मीर", "मनाली", "शिमला", "थाईलैंड", "दुबई",
		},
		Cities: []string{
			"delhi", "new delhi", "mumbai", "bangalore", "bengaluru", "hyderabad", "chennai",
			"kolkata", "pune", "ahmedabad", "jaipur", "lucknow", "chandigarh", "amritsar",
			"kochi", "indore", "bhopal", "nagpur", "surat", "patna",
			"दिल्ली", "मुंबई", "बैंगलोर", "कोलकाता", "चेन्नई", "जयपुर", "लखनऊ",
		},
		Activities: []string{
			"bangkok city tour", "city tour", "temples", "safari world", "island hopping", "phi phi islands",
			"james bond island", "romantic dinner", "beach time", "snorkeling", "scuba diving",
			"fort aguada", "dudhsagar falls", "baga beach", "gulmarg", "pahalgam", "sonmarg",
			"houseboat", "cruise ride", "water sports", "trekking", "paragliding",
			"river rafting", "desert safari", "shopping", "sightseeing",
		},
		SpecialRequests: []string{
			"airport transfers", "airport pickup", "visa assistance", "indian dinners",
			"late checkout", "early check-in", "wheelchair access", "honeymoon decoration",
			"birthday cake", "vegetarian food", "jain food", "private transfers",
			"interconnecting rooms", "extra bed",
		},
		HinglishMarkers: []string{
			"hai", "hain", "ke", "ki", "ka", "liye", "chahiye", "karna", "karni", "mein",
			"aur", "bhi", "jaldi", "chahte", "chahta", "hum", "humein", "hamare", "log",
			"bacche", "raatein", "wala", "wali", "nahi", "kya", "se",
		},
	}
}

// ParseReferenceDate resolves the configured reference date, falling back to now
func (c *Config) ParseReferenceDate(now time.Time) (time.Time, error) {
	if c.ReferenceDate == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(DateLayout, c.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse reference_date %q: %w", c.ReferenceDate, err)
	}
	return t, nil
}

// Validate checks structural constraints
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Text.MinLength < 0 || c.Text.MaxLength < 0 {
		return fmt.Errorf("text length bounds must be non-negative")
	}
	if c.Text.MaxLength > 0 && c.Text.MinLength > c.Text.MaxLength {
		return fmt.Errorf("text.min_length (%d) exceeds text.max_length (%d)", c.Text.MinLength, c.Text.MaxLength)
	}
	if c.InquiryTimeout < 0 {
		return fmt.Errorf("inquiry_timeout must be >= 0")
	}
	switch c.Output.Format {
	case "", "xlsx", "csv", "json":
	default:
		return fmt.Errorf("unknown output format %q", c.Output.Format)
	}
	switch c.Model.Backend {
	case "", "prose", "none":
	default:
		return fmt.Errorf("unknown model backend %q", c.Model.Backend)
	}
	if _, err := c.ParseReferenceDate(time.Now()); err != nil {
		return err
	}
	if _, err := BuildFieldSpecs(c.Fields); err != nil {
		return err
	}
	return nil
}
