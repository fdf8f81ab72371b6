package translate

import (
	"context"
	"log/slog"
)

// Store persists translations between runs.
type Store interface {
	GetTranslation(text, target string) (string, bool, error)
	PutTranslation(text, target, translated, provider string) error
}

// CachedTranslator consults store before calling next and records every
// successful translation. Store errors are logged and bypassed.
type CachedTranslator struct {
	next     Translator
	store    Store
	provider string
}

// NewCachedTranslator wraps next; provider is recorded alongside entries.
func NewCachedTranslator(next Translator, store Store, provider string) *CachedTranslator {
	return &CachedTranslator{next: next, store: store, provider: provider}
}

// Translate implements Translator.
func (c *CachedTranslator) Translate(ctx context.Context, text string) (string, error) {
	cached, ok, err := c.store.GetTranslation(text, Target)
	if err != nil {
		slog.Warn("translation cache read failed", "err", err)
	} else if ok {
		return cached, nil
	}

	out, err := c.next.Translate(ctx, text)
	if err != nil {
		return "", err
	}
	if out != "" {
		if err := c.store.PutTranslation(text, Target, out, c.provider); err != nil {
			slog.Warn("translation cache write failed", "err", err)
		}
	}
	return out, nil
}
