package model

import "runtime"

// MatchMode selects the matcher's candidate-search strategy.
type MatchMode string

const (
	// ModeGlobal searches every unclaimed candidate in both pools.
	ModeGlobal MatchMode = "global"
	// ModeLocality restricts the search to a window around the item's
	// interpolated position, widening to the full pool on a window miss.
	ModeLocality MatchMode = "locality"
)

// Config is the complete lexalign configuration. The mapstructure tags let
// viper decode the merged file/env/default view straight into it.
type Config struct {
	Align       AlignConfig       `mapstructure:"align" yaml:"align" json:"align"`
	Corpus      CorpusConfig      `mapstructure:"corpus" yaml:"corpus" json:"corpus"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache" json:"cache"`
	LLM         LLMConfig         `mapstructure:"llm" yaml:"llm" json:"llm"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output" json:"output"`
}

// AlignConfig controls the matcher.
type AlignConfig struct {
	Mode MatchMode `mapstructure:"mode" yaml:"mode" json:"mode"`
	// Threshold overrides the mode default when > 0.
	Threshold float64 `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
	// WindowRadius is the locality window half-width in ground-truth
	// paragraphs on each side of the interpolated position.
	WindowRadius            int  `mapstructure:"window_radius" yaml:"window_radius" json:"window_radius"`
	EnforceOneToOne         bool `mapstructure:"enforce_one_to_one" yaml:"enforce_one_to_one" json:"enforce_one_to_one"`
	FallbackToOriginalLabel bool `mapstructure:"fallback_to_original_label" yaml:"fallback_to_original_label" json:"fallback_to_original_label"`
	// Backend selects the similarity backend: "brute" or "trigram".
	Backend string `mapstructure:"backend" yaml:"backend" json:"backend"`
}

// EffectiveThreshold resolves the similarity threshold for the current mode.
// Global matching needs a high bar because the candidate set is the whole
// document; locality windows are small enough for a much lower one.
func (a AlignConfig) EffectiveThreshold() float64 {
	if a.Threshold > 0 {
		return a.Threshold
	}
	if a.Mode == ModeGlobal {
		return 0.75
	}
	return 0.30
}

// CorpusConfig controls corpus emission.
type CorpusConfig struct {
	MinSamplesPerClass int    `mapstructure:"min_samples_per_class" yaml:"min_samples_per_class" json:"min_samples_per_class"`
	Path               string `mapstructure:"path" yaml:"path" json:"path"`
}

// ConcurrencyConfig controls batch parallelism.
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// CacheConfig controls the alignment-result cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Dir     string `mapstructure:"dir" yaml:"dir" json:"dir"`
}

// LLMConfig controls the optional report reviewer. The API key never comes
// from config files; it is read from the environment.
type LLMConfig struct {
	Provider          string  `mapstructure:"provider" yaml:"provider" json:"provider"`
	Model             string  `mapstructure:"model" yaml:"model" json:"model"`
	APIKey            string  `mapstructure:"-" yaml:"-" json:"-"`
	BaseURL           string  `mapstructure:"base_url" yaml:"base_url,omitempty" json:"base_url,omitempty"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `mapstructure:"burst" yaml:"burst" json:"burst"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	Dir     string `mapstructure:"dir" yaml:"dir" json:"dir"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Align: AlignConfig{
			Mode:            ModeLocality,
			WindowRadius:    10,
			EnforceOneToOne: true,
			Backend:         "brute",
		},
		Corpus: CorpusConfig{
			MinSamplesPerClass: 50,
			Path:               "corpus.csv",
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".lexalign-cache",
		},
		LLM: LLMConfig{
			Model:             "gpt-4o-mini",
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Output: OutputConfig{
			Dir: "./lexalign-reports",
		},
	}
}
