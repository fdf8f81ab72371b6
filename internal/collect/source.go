package collect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/TobiSchelling/RepMonitor/internal/config"
	"github.com/TobiSchelling/RepMonitor/internal/news"
)

// Entry is a raw feed entry. Any field may be empty.
type Entry struct {
	Title       string
	Description string
	Link        string
	Source      string
	Published   *time.Time
}

// Locale is a language/region context to search in.
type Locale struct {
	Bucket        news.Bucket
	Language      string // hl, e.g. "es-419"
	Country       string // gl, e.g. "ES"
	CEID          string // e.g. "ES:es-419"
	FallbackLabel string
}

// LanguageCode returns the two-letter language, e.g. "es" for "es-419".
func (l Locale) LanguageCode() string {
	code, _, _ := strings.Cut(l.Language, "-")
	return strings.ToLower(code)
}

// Source searches a news feed.
type Source interface {
	Fetch(ctx context.Context, query string, loc Locale) ([]Entry, error)
}

// LocalesFromConfig converts configured locales, rejecting unknown buckets.
func LocalesFromConfig(cfgs []config.Locale) ([]Locale, error) {
	locales := make([]Locale, 0, len(cfgs))
	for _, c := range cfgs {
		b, err := news.ParseBucket(c.Bucket)
		if err != nil {
			return nil, fmt.Errorf("locale %s-%s: %w", c.Language, c.Country, err)
		}
		label := c.FallbackLabel
		if label == "" {
			label = c.Country
		}
		locales = append(locales, Locale{
			Bucket:        b,
			Language:      c.Language,
			Country:       c.Country,
			CEID:          c.CEID,
			FallbackLabel: label,
		})
	}
	return locales, nil
}

// NewSource builds the configured feed source.
func NewSource(cfg config.Feed) Source {
	if strings.ToLower(cfg.Provider) == "newsapi" {
		return NewNewsAPISource(cfg.NewsAPIKeyEnv, cfg.NewsAPIURL, cfg.Timeout)
	}
	return NewGoogleNewsSource(cfg.BaseURL, cfg.Timeout)
}
