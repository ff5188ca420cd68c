package cli

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"docpipe/config"
	"docpipe/internal/adapter/embedding"
	"docpipe/internal/adapter/extract"
	"docpipe/internal/adapter/notify"
	"docpipe/internal/port"
)

// newEmbedder builds the embedding adapter selected by config.
func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	case "http", "":
		if cfg.Embedding.BaseURL == "" {
			return nil, fmt.Errorf("embedding.base_url is required for the http provider")
		}
		return embedding.NewHTTPEmbedder(
			cfg.Embedding.APIKeyEnv,
			cfg.Embedding.Model,
			cfg.Embedding.BaseURL,
			cfg.Embedding.Dimension,
			time.Duration(cfg.Embedding.TimeoutSeconds)*time.Second,
		)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Embedding.Provider)
	}
}

// newExtractor builds the text-extraction adapter selected by config.
func newExtractor(cfg *config.Config) (port.Extractor, error) {
	switch cfg.Extraction.Mode {
	case "plaintext", "":
		return extract.NewPlaintextExtractor(), nil
	case "http":
		if cfg.Extraction.BaseURL == "" {
			return nil, fmt.Errorf("extraction.base_url is required for http mode")
		}
		return extract.NewHTTPExtractor(
			cfg.Extraction.BaseURL,
			time.Duration(cfg.Extraction.TimeoutSeconds)*time.Second,
		), nil
	default:
		return nil, fmt.Errorf("unknown extraction mode: %s", cfg.Extraction.Mode)
	}
}

// newNotifier builds the notification sink; disabled notification collects
// messages in memory so the pipeline contract stays uniform.
func newNotifier(cfg *config.Config) port.Notifier {
	if !cfg.Notify.Enabled || cfg.Notify.URL == "" {
		return notify.NewMemoryNotifier()
	}
	return notify.NewWebhookNotifier(
		cfg.Notify.URL,
		cfg.Notify.SuccessURL,
		cfg.Notify.FailureURL,
		time.Duration(cfg.Notify.TimeoutSeconds)*time.Second,
	)
}

// newEmbedLimiter builds the token bucket pacing embedding calls.
func newEmbedLimiter(cfg *config.Config) *rate.Limiter {
	perSec := cfg.Pipeline.EmbedRatePerSec
	if perSec <= 0 {
		perSec = 5.0
	}
	burst := cfg.Pipeline.EmbedBurst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSec), burst)
}
