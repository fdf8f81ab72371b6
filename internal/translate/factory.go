package translate

import (
	"log/slog"
	"strings"

	"github.com/TobiSchelling/RepMonitor/internal/config"
	"github.com/TobiSchelling/RepMonitor/internal/llm"
)

// New builds the configured backend, wrapped with the cache (when store is
// non-nil and caching is enabled) and the per-call timeout.
func New(cfg config.Translation, store Store) Translator {
	var backend Translator
	name := strings.ToLower(cfg.Provider)
	switch name {
	case "ollama", "openai":
		provider := llm.CreateProvider(name, cfg.Model, cfg.OllamaURL, cfg.OpenAIModel, cfg.APIKeyEnv, cfg.OpenAIBaseURL)
		backend = NewLLMTranslator(provider, cfg.MaxTokens)
	default:
		if name != "google" {
			slog.Warn("unknown translation provider, using google", "provider", cfg.Provider)
			name = "google"
		}
		backend = NewGoogleTranslator(cfg.GoogleURL, cfg.Timeout)
	}

	if store != nil && cfg.Cache {
		backend = NewCachedTranslator(backend, store, name)
	}
	return WithTimeout(backend, cfg.Timeout)
}
