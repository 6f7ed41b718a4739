// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "resume-md/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// FetchConfig holds settings for the download stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxBytes caps the size of the downloaded document (default 20 MiB).
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables
	// retries; the CLI default is 3.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ExtractionBackend identifies the PDF text extraction tool.
type ExtractionBackend string

const (
	BackendPDF        ExtractionBackend = "pdf"
	BackendMarkitdown ExtractionBackend = "markitdown"
)

// ExtractionConfig holds settings for the extraction stage.
type ExtractionConfig struct {
	// Backend selects the extraction tool: pdf or markitdown.
	Backend ExtractionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`
}

// AIProvider identifies the hosted generative-language API.
type AIProvider string

const (
	ProviderGemini AIProvider = "gemini"
	ProviderOpenAI AIProvider = "openai"
)

// AIConfig holds settings for the formatting stage.
type AIConfig struct {
	// Provider selects the API: gemini or openai.
	Provider AIProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the AI model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (proxies, local servers).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Language is the target language of the formatted résumé.
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// Timeout bounds a single API call (default 2m).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// MaxRetries is the number of extra attempts on transient failures (default 1).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// OutputConfig controls the optional Markdown file written after a run.
type OutputConfig struct {
	// Path is the destination file. Empty means stdout only.
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`

	// Frontmatter prepends YAML run metadata to the file.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter" mapstructure:"frontmatter"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	URL        string           `json:"url" yaml:"url" mapstructure:"url"`
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Extraction ExtractionConfig `json:"extract" yaml:"extract" mapstructure:"extract"`
	AI         AIConfig         `json:"ai" yaml:"ai" mapstructure:"ai"`
	Output     OutputConfig     `json:"output" yaml:"output" mapstructure:"output"`
}

// Defaults for PipelineConfig fields left zero.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultMaxBytes     = 20 << 20
	DefaultFetchRetries = 3
	DefaultModel        = "gemini-2.5-flash"
	DefaultOpenAIModel  = "gpt-4o-mini"
	DefaultLanguage     = "Brazilian Portuguese"
	DefaultAITimeout    = 2 * time.Minute
	DefaultAIRetries    = 1
	DefaultUserAgent    = "resume-md"
)

// ApplyDefaults fills zero-valued fields with their defaults. Retry counts
// are left alone since zero is meaningful; negative counts become zero.
func (c *PipelineConfig) ApplyDefaults(version string) {
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
	if c.Fetch.MaxBytes <= 0 {
		c.Fetch.MaxBytes = DefaultMaxBytes
	}
	if c.Fetch.MaxRetries < 0 {
		c.Fetch.MaxRetries = 0
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = DefaultUserAgent + "/" + version
	}
	if c.Extraction.Backend == "" {
		c.Extraction.Backend = BackendPDF
	}
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderGemini
	}
	if c.AI.Model == "" {
		c.AI.Model = DefaultModel
		if c.AI.Provider == ProviderOpenAI {
			c.AI.Model = DefaultOpenAIModel
		}
	}
	if c.AI.Language == "" {
		c.AI.Language = DefaultLanguage
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = DefaultAITimeout
	}
	if c.AI.MaxRetries < 0 {
		c.AI.MaxRetries = 0
	}
}
