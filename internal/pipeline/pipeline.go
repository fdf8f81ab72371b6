package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/TobiSchelling/RepMonitor/internal/collect"
	"github.com/TobiSchelling/RepMonitor/internal/config"
	"github.com/TobiSchelling/RepMonitor/internal/lexicon"
	"github.com/TobiSchelling/RepMonitor/internal/news"
	"github.com/TobiSchelling/RepMonitor/internal/rating"
	"github.com/TobiSchelling/RepMonitor/internal/sentiment"
	"github.com/TobiSchelling/RepMonitor/internal/summarize"
	"github.com/TobiSchelling/RepMonitor/internal/translate"
)

// StepResult holds the result of a single analysis step.
type StepResult struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// Score is one aggregated rating with its climate label.
type Score struct {
	Rating  news.Rating  `json:"rating"`
	Climate news.Climate `json:"climate"`
	Items   int          `json:"items"`
}

// Result holds everything produced for one request.
type Result struct {
	Topic           string          `json:"topic"`
	Period          string          `json:"period"`
	TranslatedTopic string          `json:"translated_topic"`
	Cutoff          time.Time       `json:"cutoff"`
	Domestic        Score           `json:"domestic"`
	International   Score           `json:"international"`
	Combined        Score           `json:"combined"`
	Items           []news.NewsItem `json:"items"` // newest first
	Summary         string          `json:"summary"`
	Steps           []StepResult    `json:"-"`
}

// Empty reports whether neither feed produced a usable item.
func (r *Result) Empty() bool {
	return len(r.Items) == 0
}

// Bucket returns the items of one bucket, keeping the result order.
func (r *Result) Bucket(b news.Bucket) []news.NewsItem {
	return bucketItems(r.Items, b)
}

// Collector gathers scored items for one locale.
type Collector interface {
	Collect(ctx context.Context, query string, loc collect.Locale, cutoff time.Time) []news.NewsItem
}

// Deps are the collaborators of an Analyzer.
type Deps struct {
	Translator translate.Translator
	Collector  Collector
	Summarizer *summarize.Summarizer
	Locales    []collect.Locale
	Periods    map[string]int
	Climate    rating.Thresholds
	Now        func() time.Time
}

// Analyzer runs the full request: topic translation, parallel collection
// per locale, aggregation and summary.
type Analyzer struct {
	deps Deps
}

// NewAnalyzer creates an analyzer from explicit collaborators.
func NewAnalyzer(deps Deps) *Analyzer {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Summarizer == nil {
		deps.Summarizer = summarize.New(nil, summarize.DefaultThresholds())
	}
	if deps.Climate == (rating.Thresholds{}) {
		deps.Climate = rating.DefaultThresholds()
	}
	return &Analyzer{deps: deps}
}

// New wires the production collaborators from cfg. store may be nil to
// disable the translation cache.
func New(cfg *config.Config, store translate.Store) (*Analyzer, error) {
	locales, err := collect.LocalesFromConfig(cfg.Locales)
	if err != nil {
		return nil, err
	}

	translator := translate.New(cfg.Translation, store)
	scorer := sentiment.NewScorer(
		translator,
		sentiment.NewVaderModel(),
		lexicon.New(cfg.Lexicon.Positive, cfg.Lexicon.Negative),
		sentiment.Bounds{
			NegativeCeiling: cfg.Lexicon.NegativeCeiling,
			PositiveFloor:   cfg.Lexicon.PositiveFloor,
		},
	)
	collector := collect.NewCollector(collect.NewSource(cfg.Feed), scorer, collect.Options{
		Concurrency: cfg.Collect.Concurrency,
		MaxPerFeed:  cfg.Collect.MaxPerFeed,
		MinLength:   cfg.Collect.MinLength,
		FeedTimeout: cfg.Feed.Timeout,
	})
	summarizer := summarize.New(cfg.StopWords, summarize.Thresholds{
		Positive: cfg.Thresholds.Summary.Positive,
		Negative: cfg.Thresholds.Summary.Negative,
	})

	return NewAnalyzer(Deps{
		Translator: translator,
		Collector:  collector,
		Summarizer: summarizer,
		Locales:    locales,
		Periods:    cfg.Periods,
		Climate: rating.Thresholds{
			Positive: cfg.Thresholds.Climate.Positive,
			Negative: cfg.Thresholds.Climate.Negative,
		},
	}), nil
}

// Analyze validates req and runs it. Validation errors are returned before
// any collaborator is called; everything after that degrades instead of
// failing.
func (a *Analyzer) Analyze(ctx context.Context, req news.SearchRequest) (*Result, error) {
	if err := req.Validate(a.deps.Periods); err != nil {
		return nil, err
	}

	days := a.deps.Periods[req.Period]
	r := &Result{
		Topic:  req.Topic,
		Period: req.Period,
		Cutoff: a.deps.Now().Add(-time.Duration(days) * 24 * time.Hour),
	}

	r.TranslatedTopic = req.Topic
	if a.needsTranslation() {
		r.TranslatedTopic = InternationalQuery(ctx, a.deps.Translator, req.Topic)
	}
	r.Steps = append(r.Steps, StepResult{
		Name:    "Translate",
		Summary: fmt.Sprintf("International query: %s", r.TranslatedTopic),
	})

	perLocale := a.collectAll(ctx, req.Topic, r.TranslatedTopic, r.Cutoff)

	var all []news.NewsItem
	for i, loc := range a.deps.Locales {
		items := perLocale[i]
		all = append(all, items...)
		r.Steps = append(r.Steps, StepResult{
			Name:    "Collect",
			Summary: fmt.Sprintf("%d %s items", len(items), loc.Bucket),
		})
	}

	r.Domestic = a.score(bucketItems(all, news.Domestic))
	r.International = a.score(bucketItems(all, news.International))
	r.Combined = a.score(all)
	r.Steps = append(r.Steps, StepResult{
		Name: "Aggregate",
		Summary: fmt.Sprintf("domestic %.1f, international %.1f, combined %.1f",
			float64(r.Domestic.Rating), float64(r.International.Rating), float64(r.Combined.Rating)),
	})

	r.Items = news.SortByPublished(all)
	r.Summary = a.deps.Summarizer.Summarize(r.Items, r.Combined.Rating, req.Topic)
	r.Steps = append(r.Steps, StepResult{
		Name:    "Summarize",
		Summary: fmt.Sprintf("%d items summarized", len(r.Items)),
	})

	slog.Info("analysis complete",
		"topic", req.Topic,
		"period", req.Period,
		"items", len(r.Items),
		"rating", float64(r.Combined.Rating),
		"climate", r.Combined.Climate,
	)
	return r, nil
}

// collectAll runs one collection per locale in parallel and joins them.
// The result is indexed like Deps.Locales.
func (a *Analyzer) collectAll(ctx context.Context, topic, translated string, cutoff time.Time) [][]news.NewsItem {
	out := make([][]news.NewsItem, len(a.deps.Locales))

	var g errgroup.Group
	for i, loc := range a.deps.Locales {
		i, loc := i, loc
		query := news.NormalizeQuotes(topic)
		if loc.Bucket == news.International {
			query = translated
		}
		g.Go(func() error {
			out[i] = a.deps.Collector.Collect(ctx, query, loc, cutoff)
			return nil
		})
	}
	g.Wait()

	return out
}

func (a *Analyzer) needsTranslation() bool {
	for _, loc := range a.deps.Locales {
		if loc.Bucket == news.International {
			return true
		}
	}
	return false
}

func (a *Analyzer) score(items []news.NewsItem) Score {
	r := rating.Aggregate(items)
	s := Score{Rating: r, Items: len(items)}
	if r.HasData() {
		s.Climate = a.deps.Climate.Climate(r)
	}
	return s
}

// InternationalQuery translates topic for the international feed. Quote
// delimiters are stripped before translation and restored afterwards; a
// failed translation returns topic with its quotes normalized.
func InternationalQuery(ctx context.Context, t translate.Translator, topic string) string {
	bare := news.StripQuotes(topic)
	res := translate.Attempt(ctx, t, bare)
	if res.Failed() {
		slog.Warn("topic translation failed, searching untranslated", "topic", topic, "err", res.Err)
		return news.NormalizeQuotes(topic)
	}
	if news.IsQuoted(topic) {
		return `"` + res.Text + `"`
	}
	return res.Text
}

func bucketItems(items []news.NewsItem, b news.Bucket) []news.NewsItem {
	var out []news.NewsItem
	for _, it := range items {
		if it.Bucket == b {
			out = append(out, it)
		}
	}
	return out
}
