package collect

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/TobiSchelling/RepMonitor/internal/news"
	"github.com/TobiSchelling/RepMonitor/internal/normalize"
)

// MissingLink stands in for entries without a URL.
const MissingLink = "#"

// Scorer assigns a sentiment score in [0, 1].
type Scorer interface {
	Score(ctx context.Context, text string) float64
}

// Options tune a Collector.
type Options struct {
	Concurrency int
	MaxPerFeed  int // 0 means no cap
	MinLength   int // texts must be longer than this
	FeedTimeout time.Duration
}

// Collector turns feed entries into scored news items for one locale.
type Collector struct {
	source Source
	scorer Scorer
	opts   Options
}

// NewCollector creates a new collector.
func NewCollector(source Source, scorer Scorer, opts Options) *Collector {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.MinLength <= 0 {
		opts.MinLength = 10
	}
	return &Collector{source: source, scorer: scorer, opts: opts}
}

// Collect fetches query in loc and returns the usable entries, in feed
// order, scored. Feed failures produce an empty result.
func (c *Collector) Collect(ctx context.Context, query string, loc Locale, cutoff time.Time) []news.NewsItem {
	fetchCtx := ctx
	if c.opts.FeedTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.opts.FeedTimeout)
		defer cancel()
	}

	entries, err := c.source.Fetch(fetchCtx, query, loc)
	if err != nil {
		slog.Warn("feed unavailable", "bucket", loc.Bucket, "query", query, "err", err)
		return nil
	}

	items := c.filter(entries, loc, cutoff)
	slog.Info("collected entries", "bucket", loc.Bucket, "query", query, "entries", len(entries), "kept", len(items))

	var g errgroup.Group
	g.SetLimit(c.opts.Concurrency)
	for i := range items {
		i := i
		g.Go(func() error {
			items[i].Score = c.scorer.Score(ctx, items[i].Text)
			return nil
		})
	}
	g.Wait()

	return items
}

// filter drops undated, stale and too-short entries and fills fallbacks.
func (c *Collector) filter(entries []Entry, loc Locale, cutoff time.Time) []news.NewsItem {
	var items []news.NewsItem
	for _, e := range entries {
		if c.opts.MaxPerFeed > 0 && len(items) >= c.opts.MaxPerFeed {
			break
		}
		if e.Published == nil || e.Published.IsZero() {
			continue
		}
		if e.Published.Before(cutoff) {
			continue
		}

		text := normalize.Text(e.Title + ". " + e.Description)
		if utf8.RuneCountInString(text) <= c.opts.MinLength {
			continue
		}

		source := strings.TrimSpace(e.Source)
		if source == "" {
			source = loc.FallbackLabel
		}
		link := strings.TrimSpace(e.Link)
		if link == "" {
			link = MissingLink
		}

		items = append(items, news.NewsItem{
			Text:        text,
			Source:      source,
			PublishedAt: *e.Published,
			Link:        link,
			Bucket:      loc.Bucket,
		})
	}
	return items
}
