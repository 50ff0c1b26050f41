// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Oracle providers accepted in AIConfig.Provider.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// AIConfig holds settings for the language-model oracle.
type AIConfig struct {
	// Provider selects the oracle backend: anthropic, openai, or ollama.
	Provider string `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "claude-3-5-sonnet-20241022").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key. Empty disables the anthropic and
	// openai oracles.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// CallTimeout bounds a single oracle call (default 60s).
	CallTimeout time.Duration `json:"call_timeout" yaml:"call_timeout"`

	// RequestsPerSecond throttles oracle calls; 0 means unlimited.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// MaxChars truncates document text before prompting (default 6000).
	MaxChars int `json:"max_chars" yaml:"max_chars"`

	// Concurrency bounds parallel extractions (default 1).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// ReportConfig holds settings for report export.
type ReportConfig struct {
	OutputDir string   `json:"output_dir" yaml:"output_dir"`
	Formats   []string `json:"formats" yaml:"formats"`
}

// ChecklistConfig points at an alternative checklist definition.
type ChecklistConfig struct {
	// File is a YAML checklist path; empty uses the embedded default.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	AI         AIConfig         `json:"ai" yaml:"ai"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Report     ReportConfig     `json:"report" yaml:"report"`
	Checklist  ChecklistConfig  `json:"checklist" yaml:"checklist"`
}

// Defaults applied when a field is left at its zero value.
const (
	DefaultProvider    = ProviderAnthropic
	DefaultModel       = "claude-3-5-sonnet-20241022"
	DefaultMaxRetries  = 3
	DefaultCallTimeout = 60 * time.Second
	DefaultMaxTokens   = 3000
	DefaultTemperature = 0.1
	DefaultMaxChars    = 6000
	DefaultConcurrency = 1
	DefaultOutputDir   = "reports"
)

// WithDefaults fills zero-valued fields with their defaults.
func (c PipelineConfig) WithDefaults() PipelineConfig {
	if c.AI.Provider == "" {
		c.AI.Provider = DefaultProvider
	}
	if c.AI.Model == "" {
		c.AI.Model = DefaultModel
	}
	if c.AI.MaxRetries <= 0 {
		c.AI.MaxRetries = DefaultMaxRetries
	}
	if c.AI.CallTimeout <= 0 {
		c.AI.CallTimeout = DefaultCallTimeout
	}
	if c.AI.MaxTokens <= 0 {
		c.AI.MaxTokens = DefaultMaxTokens
	}
	if c.Extraction.MaxChars <= 0 {
		c.Extraction.MaxChars = DefaultMaxChars
	}
	if c.Extraction.Concurrency <= 0 {
		c.Extraction.Concurrency = DefaultConcurrency
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = DefaultOutputDir
	}
	if len(c.Report.Formats) == 0 {
		c.Report.Formats = []string{"markdown", "json"}
	}
	return c
}
