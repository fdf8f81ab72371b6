package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/TobiSchelling/RepMonitor/internal/collect"
	"github.com/TobiSchelling/RepMonitor/internal/config"
	"github.com/TobiSchelling/RepMonitor/internal/news"
)

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

var testLocales = []collect.Locale{
	{Bucket: news.Domestic, Language: "es-419", Country: "ES", CEID: "ES:es-419", FallbackLabel: "Nac"},
	{Bucket: news.International, Language: "en-US", Country: "US", CEID: "US:en", FallbackLabel: "Intl"},
}

var testPeriods = map[string]int{"24h": 1, "week": 7}

type mockTranslator struct {
	mu     sync.Mutex
	out    map[string]string
	err    error
	called []string
}

func (m *mockTranslator) Translate(_ context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called = append(m.called, text)
	if m.err != nil {
		return "", m.err
	}
	if out, ok := m.out[text]; ok {
		return out, nil
	}
	return text, nil
}

type mockCollector struct {
	mu      sync.Mutex
	items   map[news.Bucket][]news.NewsItem
	queries map[news.Bucket]string
	cutoffs []time.Time
}

func (m *mockCollector) Collect(_ context.Context, query string, loc collect.Locale, cutoff time.Time) []news.NewsItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queries == nil {
		m.queries = make(map[news.Bucket]string)
	}
	m.queries[loc.Bucket] = query
	m.cutoffs = append(m.cutoffs, cutoff)
	return m.items[loc.Bucket]
}

func item(b news.Bucket, score float64, age time.Duration, text string) news.NewsItem {
	return news.NewsItem{
		Text:        text,
		Source:      "Test",
		PublishedAt: now.Add(-age),
		Score:       score,
		Link:        "#",
		Bucket:      b,
	}
}

func newTestAnalyzer(tr *mockTranslator, col *mockCollector) *Analyzer {
	return NewAnalyzer(Deps{
		Translator: tr,
		Collector:  col,
		Locales:    testLocales,
		Periods:    testPeriods,
		Now:        func() time.Time { return now },
	})
}

func TestAnalyzeRatingsPerBucket(t *testing.T) {
	col := &mockCollector{items: map[news.Bucket][]news.NewsItem{
		news.Domestic: {
			item(news.Domestic, 0.9, 3*time.Hour, "Exportaciones récord de hortalizas"),
			item(news.Domestic, 0.9, 1*time.Hour, "Las hortalizas lideran el mercado"),
			item(news.Domestic, 0.9, 5*time.Hour, "Hortalizas frescas para Europa"),
		},
		news.International: {
			item(news.International, 0.1, 2*time.Hour, "Vegetable shortage hits markets"),
		},
	}}
	a := newTestAnalyzer(&mockTranslator{}, col)

	r, err := a.Analyze(context.Background(), news.SearchRequest{Topic: "hortalizas", Period: "24h"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []struct {
		name    string
		got     Score
		rating  news.Rating
		climate news.Climate
		items   int
	}{
		{"domestic", r.Domestic, 6.4, news.Positive, 3},
		{"international", r.International, 1.6, news.Negative, 1},
		{"combined", r.Combined, 5.2, news.Positive, 4},
	}
	for _, c := range checks {
		if c.got.Rating != c.rating || c.got.Climate != c.climate || c.got.Items != c.items {
			t.Errorf("%s: expected %.1f/%s/%d, got %.1f/%s/%d", c.name,
				float64(c.rating), c.climate, c.items,
				float64(c.got.Rating), c.got.Climate, c.got.Items)
		}
	}

	if len(r.Items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(r.Items))
	}
	for i := 1; i < len(r.Items); i++ {
		if r.Items[i].PublishedAt.After(r.Items[i-1].PublishedAt) {
			t.Errorf("items not sorted newest first at %d", i)
		}
	}
	if got := len(r.Bucket(news.International)); got != 1 {
		t.Errorf("expected 1 international item, got %d", got)
	}
	if r.Summary == "" || !strings.HasPrefix(r.Summary, "Analysis of 4 news items.") {
		t.Errorf("unexpected summary %q", r.Summary)
	}
	if want := now.Add(-24 * time.Hour); len(col.cutoffs) != 2 || !col.cutoffs[0].Equal(want) {
		t.Errorf("expected cutoff %s, got %v", want, col.cutoffs)
	}
}

func TestAnalyzeQuotedTopic(t *testing.T) {
	tr := &mockTranslator{out: map[string]string{"crisis del pepino": "cucumber crisis"}}
	col := &mockCollector{}
	a := newTestAnalyzer(tr, col)

	r, err := a.Analyze(context.Background(), news.SearchRequest{Topic: `"crisis del pepino"`, Period: "week"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.TranslatedTopic != `"cucumber crisis"` {
		t.Errorf("expected quoted translation, got %q", r.TranslatedTopic)
	}
	if col.queries[news.Domestic] != `"crisis del pepino"` {
		t.Errorf("domestic feed should search the topic as typed, got %q", col.queries[news.Domestic])
	}
	if col.queries[news.International] != `"cucumber crisis"` {
		t.Errorf("international feed should search the translation, got %q", col.queries[news.International])
	}
	if len(tr.called) != 1 || tr.called[0] != "crisis del pepino" {
		t.Errorf("expected one translation of the bare phrase, got %v", tr.called)
	}
}

func TestAnalyzeTypographicQuotes(t *testing.T) {
	tr := &mockTranslator{out: map[string]string{"crisis del pepino": "cucumber crisis"}}
	col := &mockCollector{}
	a := newTestAnalyzer(tr, col)

	if _, err := a.Analyze(context.Background(), news.SearchRequest{Topic: "«crisis del pepino»", Period: "week"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if col.queries[news.Domestic] != `"crisis del pepino"` {
		t.Errorf("expected ASCII phrase quotes in domestic query, got %q", col.queries[news.Domestic])
	}
	if col.queries[news.International] != `"cucumber crisis"` {
		t.Errorf("expected quoted translation, got %q", col.queries[news.International])
	}
}

func TestAnalyzeTranslationFailureFallsBack(t *testing.T) {
	col := &mockCollector{}
	a := newTestAnalyzer(&mockTranslator{err: errors.New("quota exceeded")}, col)

	r, err := a.Analyze(context.Background(), news.SearchRequest{Topic: "pepino", Period: "24h"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TranslatedTopic != "pepino" || col.queries[news.International] != "pepino" {
		t.Errorf("expected untranslated fallback, got %q / %q", r.TranslatedTopic, col.queries[news.International])
	}
}

func TestAnalyzeEmptyFeeds(t *testing.T) {
	a := newTestAnalyzer(&mockTranslator{}, &mockCollector{})

	r, err := a.Analyze(context.Background(), news.SearchRequest{Topic: "nada", Period: "24h"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Empty() {
		t.Error("expected empty result")
	}
	for _, s := range []Score{r.Domestic, r.International, r.Combined} {
		if s.Rating.HasData() || s.Climate != news.Neutral {
			t.Errorf("expected no-data neutral score, got %+v", s)
		}
	}
}

func TestAnalyzeRejectsBeforeCollaborators(t *testing.T) {
	tests := []struct {
		name string
		req  news.SearchRequest
		want error
	}{
		{"empty topic", news.SearchRequest{Topic: "", Period: "24h"}, news.ErrEmptyQuery},
		{"blank topic", news.SearchRequest{Topic: "   ", Period: "24h"}, news.ErrEmptyQuery},
		{"only quotes", news.SearchRequest{Topic: `""`, Period: "24h"}, news.ErrEmptyQuery},
		{"unknown period", news.SearchRequest{Topic: "pepino", Period: "decade"}, news.ErrUnknownPeriod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &mockTranslator{}
			col := &mockCollector{}
			a := newTestAnalyzer(tr, col)

			r, err := a.Analyze(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if r != nil {
				t.Error("expected nil result")
			}
			if len(tr.called) != 0 || len(col.cutoffs) != 0 {
				t.Error("collaborators must not be called for an invalid request")
			}
		})
	}
}

func TestAnalyzeDomesticOnlySkipsTranslation(t *testing.T) {
	tr := &mockTranslator{}
	a := NewAnalyzer(Deps{
		Translator: tr,
		Collector:  &mockCollector{},
		Locales:    testLocales[:1],
		Periods:    testPeriods,
	})
	if _, err := a.Analyze(context.Background(), news.SearchRequest{Topic: "pepino", Period: "24h"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tr.called) != 0 {
		t.Errorf("expected no translation, got %v", tr.called)
	}
}

func TestInternationalQuery(t *testing.T) {
	tr := &mockTranslator{out: map[string]string{"ventas de aceite": "oil sales"}}
	tests := []struct {
		topic string
		want  string
	}{
		{"ventas de aceite", "oil sales"},
		{`"ventas de aceite"`, `"oil sales"`},
		{"desconocido", "desconocido"},
	}
	for _, tt := range tests {
		if got := InternationalQuery(context.Background(), tr, tt.topic); got != tt.want {
			t.Errorf("InternationalQuery(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}

func TestNewFromDefaultConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	a, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.deps.Locales) != 2 {
		t.Errorf("expected 2 locales, got %d", len(a.deps.Locales))
	}
	if a.deps.Climate.Positive != 4.5 || a.deps.Climate.Negative != 2.9 {
		t.Errorf("unexpected climate thresholds %+v", a.deps.Climate)
	}

	cfg.Locales = append(cfg.Locales, config.Locale{Bucket: "regional"})
	if _, err := New(cfg, nil); err == nil {
		t.Error("expected error for unknown bucket")
	}
}
