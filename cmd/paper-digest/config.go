package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/catalog"
	"github.com/pdiddy/paper-digest/internal/extract"
	"github.com/pdiddy/paper-digest/internal/pipeline"
	"github.com/pdiddy/paper-digest/internal/store"
	"github.com/pdiddy/paper-digest/internal/summarize"
	"github.com/pdiddy/paper-digest/pkg/types"
)

const defaultUserAgent = "paper-digest/0.1"

func setConfigDefaults() {
	viper.SetDefault("catalog.categories", []string{"cs.LG", "cs.AI", "stat.ML"})
	viper.SetDefault("catalog.max_results", 25)
	viper.SetDefault("catalog.window_days", 1)
	viper.SetDefault("catalog.timeout", 30*time.Second)

	viper.SetDefault("extraction.max_chars", 8000)
	viper.SetDefault("extraction.timeout", 60*time.Second)

	viper.SetDefault("summary.model", "claude-sonnet-4-5-20250929")
	viper.SetDefault("summary.max_tokens", 4096)
	viper.SetDefault("summary.timeout", 120*time.Second)

	viper.SetDefault("storage.backend", string(types.BackendDir))
	viper.SetDefault("storage.endpoint", "localhost:9000")
	viper.SetDefault("storage.bucket", "paper-summaries")
	viper.SetDefault("storage.dir", "summaries")

	viper.SetDefault("web.addr", ":8080")
	viper.SetDefault("web.recent_days", 7)
	viper.SetDefault("web.timezone", "")

	viper.SetDefault("ledger_path", "paper-digest.db")
	viper.SetDefault("schedule", "0 */8 * * *")
}

// loadConfig assembles the pipeline configuration from viper, filling in
// credentials from loaded secrets when the config leaves them blank.
func loadConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Catalog: types.CatalogConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("catalog.timeout"),
				UserAgent: defaultUserAgent,
			},
			Categories: viper.GetStringSlice("catalog.categories"),
			MaxResults: viper.GetInt("catalog.max_results"),
			WindowDays: viper.GetInt("catalog.window_days"),
		},
		Extraction: types.ExtractionConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("extraction.timeout"),
				UserAgent: defaultUserAgent,
			},
			MaxChars: viper.GetInt("extraction.max_chars"),
		},
		Summary: types.SummaryConfig{
			Model:     viper.GetString("summary.model"),
			APIKey:    secretDefault("anthropic-api-key", viper.GetString("summary.api_key")),
			MaxTokens: viper.GetInt("summary.max_tokens"),
			Timeout:   viper.GetDuration("summary.timeout"),
		},
		Storage: types.StorageConfig{
			Backend:   types.StorageBackend(viper.GetString("storage.backend")),
			Endpoint:  viper.GetString("storage.endpoint"),
			AccessKey: secretDefault("minio-access-key", viper.GetString("storage.access_key")),
			SecretKey: secretDefault("minio-secret-key", viper.GetString("storage.secret_key")),
			UseSSL:    viper.GetBool("storage.use_ssl"),
			Bucket:    viper.GetString("storage.bucket"),
			Dir:       viper.GetString("storage.dir"),
		},
		Web: types.WebConfig{
			Addr:       viper.GetString("web.addr"),
			RecentDays: viper.GetInt("web.recent_days"),
			Timezone:   viper.GetString("web.timezone"),
		},
		LedgerPath: viper.GetString("ledger_path"),
		Schedule:   viper.GetString("schedule"),
	}
}

// newStore opens the configured storage backend.
func newStore(ctx context.Context, cfg types.StorageConfig) (store.Store, error) {
	switch cfg.Backend {
	case types.BackendMinio:
		return store.NewMinioStore(ctx, cfg)
	case types.BackendDir, "":
		return store.NewDirStore(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// newPipeline wires the batch stages from configuration.
func newPipeline(cfg types.PipelineConfig, st store.Store) (*pipeline.Pipeline, error) {
	if cfg.Summary.APIKey == "" {
		return nil, fmt.Errorf("no Anthropic API key: set summary.api_key or .secrets/anthropic-api-key")
	}

	return &pipeline.Pipeline{
		Catalog: &catalog.Fetcher{
			Client: &http.Client{Timeout: cfg.Catalog.Timeout},
			Config: cfg.Catalog,
		},
		Extractor: &extract.Extractor{
			Client: &http.Client{Timeout: cfg.Extraction.Timeout},
			Config: cfg.Extraction,
		},
		Summarizer: &summarize.Summarizer{
			Backend: &summarize.ClaudeBackend{
				APIKey:    cfg.Summary.APIKey,
				Model:     cfg.Summary.Model,
				MaxTokens: cfg.Summary.MaxTokens,
				Client:    &http.Client{Timeout: cfg.Summary.Timeout},
			},
			Model: cfg.Summary.Model,
		},
		Store: st,
	}, nil
}
