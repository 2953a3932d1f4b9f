package clean

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the resolved, immutable cleaning configuration for one pipeline
// invocation. It is produced once by merging process defaults with optional
// per-request overrides and never mutated afterwards.
type Config struct {
	RemoveHTMLTags       bool `json:"remove_html_tags" yaml:"remove_html_tags"`
	FixEncoding          bool `json:"fix_encoding" yaml:"fix_encoding"`
	NormalizeWhitespace  bool `json:"normalize_whitespace" yaml:"normalize_whitespace"`
	NormalizePunctuation bool `json:"normalize_punctuation" yaml:"normalize_punctuation"`
	StandardizeCurrency  bool `json:"standardize_currency" yaml:"standardize_currency"`
	StandardizeUnits     bool `json:"standardize_units" yaml:"standardize_units"`
	EnableTypoCorrection bool `json:"enable_typo_correction" yaml:"enable_typo_correction"`

	// PrimaryCurrency is the code used for symbols shared by several
	// currencies, e.g. "$".
	PrimaryCurrency string `json:"primary_currency" yaml:"primary_currency"`

	TypoCorrection TypoConfig `json:"typo_correction" yaml:"typo_correction"`
}

// TypoConfig holds the parameters of the entity-protected correction stage.
type TypoConfig struct {
	MinWordLength       int     `json:"min_word_length" yaml:"min_word_length"`
	MaxWordLength       int     `json:"max_word_length" yaml:"max_word_length"`
	SkipCapitalized     bool    `json:"skip_capitalized_words" yaml:"skip_capitalized_words"`
	UseNEREntities      bool    `json:"use_ner_entities" yaml:"use_ner_entities"`
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold"`
}

// DefaultConfig returns the process-wide cleaning defaults.
func DefaultConfig() Config {
	return Config{
		RemoveHTMLTags:       true,
		FixEncoding:          true,
		NormalizeWhitespace:  true,
		NormalizePunctuation: true,
		StandardizeCurrency:  true,
		StandardizeUnits:     true,
		EnableTypoCorrection: true,
		PrimaryCurrency:      "USD",
		TypoCorrection: TypoConfig{
			MinWordLength:       3,
			MaxWordLength:       15,
			SkipCapitalized:     true,
			UseNEREntities:      true,
			ConfidenceThreshold: 0.7,
		},
	}
}

// Overrides is a partial cleaning configuration. Nil fields inherit the base
// value. Unknown keys are rejected at decode time, both for YAML files and
// JSON request bodies.
type Overrides struct {
	RemoveHTMLTags       *bool `json:"remove_html_tags,omitempty" yaml:"remove_html_tags"`
	FixEncoding          *bool `json:"fix_encoding,omitempty" yaml:"fix_encoding"`
	NormalizeWhitespace  *bool `json:"normalize_whitespace,omitempty" yaml:"normalize_whitespace"`
	NormalizePunctuation *bool `json:"normalize_punctuation,omitempty" yaml:"normalize_punctuation"`
	StandardizeCurrency  *bool `json:"standardize_currency,omitempty" yaml:"standardize_currency"`
	StandardizeUnits     *bool `json:"standardize_units,omitempty" yaml:"standardize_units"`
	EnableTypoCorrection *bool `json:"enable_typo_correction,omitempty" yaml:"enable_typo_correction"`

	PrimaryCurrency *string `json:"primary_currency,omitempty" yaml:"primary_currency"`

	TypoCorrection *TypoOverrides `json:"typo_correction,omitempty" yaml:"typo_correction"`
}

// TypoOverrides is the partial form of TypoConfig.
type TypoOverrides struct {
	MinWordLength       *int     `json:"min_word_length,omitempty" yaml:"min_word_length"`
	MaxWordLength       *int     `json:"max_word_length,omitempty" yaml:"max_word_length"`
	SkipCapitalized     *bool    `json:"skip_capitalized_words,omitempty" yaml:"skip_capitalized_words"`
	UseNEREntities      *bool    `json:"use_ner_entities,omitempty" yaml:"use_ner_entities"`
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty" yaml:"confidence_threshold"`
}

// Merge resolves a base config and optional overrides into a new Config.
func Merge(base Config, over *Overrides) Config {
	cfg := base
	if over == nil {
		return cfg
	}
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setBool(&cfg.RemoveHTMLTags, over.RemoveHTMLTags)
	setBool(&cfg.FixEncoding, over.FixEncoding)
	setBool(&cfg.NormalizeWhitespace, over.NormalizeWhitespace)
	setBool(&cfg.NormalizePunctuation, over.NormalizePunctuation)
	setBool(&cfg.StandardizeCurrency, over.StandardizeCurrency)
	setBool(&cfg.StandardizeUnits, over.StandardizeUnits)
	setBool(&cfg.EnableTypoCorrection, over.EnableTypoCorrection)
	if over.PrimaryCurrency != nil {
		cfg.PrimaryCurrency = *over.PrimaryCurrency
	}
	if tc := over.TypoCorrection; tc != nil {
		if tc.MinWordLength != nil {
			cfg.TypoCorrection.MinWordLength = *tc.MinWordLength
		}
		if tc.MaxWordLength != nil {
			cfg.TypoCorrection.MaxWordLength = *tc.MaxWordLength
		}
		setBool(&cfg.TypoCorrection.SkipCapitalized, tc.SkipCapitalized)
		setBool(&cfg.TypoCorrection.UseNEREntities, tc.UseNEREntities)
		if tc.ConfidenceThreshold != nil {
			cfg.TypoCorrection.ConfidenceThreshold = *tc.ConfidenceThreshold
		}
	}
	return cfg
}

// Validate rejects configurations with out-of-range parameters.
func (c Config) Validate() error {
	tc := c.TypoCorrection
	if tc.MinWordLength < 1 {
		return fmt.Errorf("typo_correction.min_word_length must be >= 1, got %d", tc.MinWordLength)
	}
	if tc.MaxWordLength < tc.MinWordLength {
		return fmt.Errorf("typo_correction.max_word_length %d is below min_word_length %d", tc.MaxWordLength, tc.MinWordLength)
	}
	if tc.ConfidenceThreshold < 0 || tc.ConfidenceThreshold > 1 {
		return fmt.Errorf("typo_correction.confidence_threshold must be in [0,1], got %g", tc.ConfidenceThreshold)
	}
	if c.PrimaryCurrency == "" {
		return fmt.Errorf("primary_currency must not be empty")
	}
	return nil
}

// LoadConfig reads a YAML overrides file and merges it onto the defaults.
// Unknown stage names fail loudly instead of being silently ignored.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read cleaning config: %w", err)
	}
	over, err := DecodeOverridesYAML(data)
	if err != nil {
		return Config{}, fmt.Errorf("parse cleaning config %s: %w", path, err)
	}
	cfg := Merge(DefaultConfig(), over)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("cleaning config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeOverridesYAML decodes YAML overrides with strict field checking.
// An empty document yields empty overrides.
func DecodeOverridesYAML(data []byte) (*Overrides, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var over Overrides
	if err := dec.Decode(&over); err != nil {
		if errors.Is(err, io.EOF) {
			return &Overrides{}, nil
		}
		return nil, err
	}
	return &over, nil
}
