package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-digest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CatalogConfig holds settings for the catalog fetch stage.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline"`

	// Categories lists the arXiv categories to fetch (default cs.LG, cs.AI, stat.ML).
	Categories []string `json:"categories" yaml:"categories"`

	// MaxResults caps the number of papers returned per fetch (default 25).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// WindowDays is how far back the fetch window reaches (default 1).
	WindowDays int `json:"window_days" yaml:"window_days"`
}

// ExtractionConfig holds settings for the PDF extraction stage.
type ExtractionConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxChars is the character budget for extracted text; longer text is
	// truncated on a whitespace boundary (default 8000).
	MaxChars int `json:"max_chars" yaml:"max_chars"`
}

// SummaryConfig holds settings for the summarization stage.
type SummaryConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens bounds the response size (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Timeout is the per-call timeout (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// StorageBackend identifies the summary store implementation.
type StorageBackend string

const (
	BackendMinio StorageBackend = "minio"
	BackendDir   StorageBackend = "dir"
)

// StorageConfig holds settings for the persistence layer.
type StorageConfig struct {
	// Backend selects the store: minio or dir.
	Backend StorageBackend `json:"backend" yaml:"backend"`

	// Endpoint is the object store address (e.g. "localhost:9000").
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// AccessKey authenticates with the object store.
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty"`

	// SecretKey authenticates with the object store.
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty"`

	// UseSSL enables HTTPS for object store connections.
	UseSSL bool `json:"use_ssl" yaml:"use_ssl"`

	// Bucket is the bucket holding summary records (default "paper-summaries").
	Bucket string `json:"bucket" yaml:"bucket"`

	// Dir is the base directory for the dir backend (default "summaries").
	Dir string `json:"dir" yaml:"dir"`
}

// WebConfig holds settings for the web reader.
type WebConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// RecentDays is how many dates the selector offers (default 7).
	RecentDays int `json:"recent_days" yaml:"recent_days"`

	// Timezone is the IANA zone used to resolve "today" (default UTC).
	Timezone string `json:"timezone" yaml:"timezone"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Summary    SummaryConfig    `json:"summary" yaml:"summary"`
	Storage    StorageConfig    `json:"storage" yaml:"storage"`
	Web        WebConfig        `json:"web" yaml:"web"`

	// LedgerPath is the SQLite file recording batch-run outcomes
	// (default "paper-digest.db").
	LedgerPath string `json:"ledger_path" yaml:"ledger_path"`

	// Schedule is the cron expression for serve-mode batch runs
	// (default "0 */8 * * *").
	Schedule string `json:"schedule" yaml:"schedule"`
}
