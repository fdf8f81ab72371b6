package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"
)

// DefaultGoogleNewsURL is the Google News RSS search endpoint.
const DefaultGoogleNewsURL = "https://news.google.com/rss/search"

const sourceKey = "source"

// GoogleNewsSource searches Google News RSS.
type GoogleNewsSource struct {
	BaseURL string
	client  *http.Client
}

// NewGoogleNewsSource creates a source; an empty baseURL uses DefaultGoogleNewsURL.
func NewGoogleNewsSource(baseURL string, timeout time.Duration) *GoogleNewsSource {
	if baseURL == "" {
		baseURL = DefaultGoogleNewsURL
	}
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &GoogleNewsSource{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// SearchURL builds the feed URL for query in loc.
func (g *GoogleNewsSource) SearchURL(query string, loc Locale) string {
	params := url.Values{
		"q":    {query},
		"hl":   {loc.Language},
		"gl":   {loc.Country},
		"ceid": {loc.CEID},
	}
	return g.BaseURL + "?" + params.Encode()
}

// Fetch implements Source.
func (g *GoogleNewsSource) Fetch(ctx context.Context, query string, loc Locale) ([]Entry, error) {
	// gofeed parsers keep state while parsing; one per call.
	parser := gofeed.NewParser()
	parser.Client = g.client
	parser.UserAgent = "RepMonitor/1.0 (news monitor)"
	parser.RSSTranslator = &sourceTranslator{}

	feed, err := parser.ParseURLWithContext(g.SearchURL(query, loc), ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, parseItem(item))
	}
	return entries, nil
}

func parseItem(item *gofeed.Item) Entry {
	e := Entry{
		Title:       strings.TrimSpace(item.Title),
		Description: item.Description,
		Link:        strings.TrimSpace(item.Link),
		Published:   item.PublishedParsed,
	}
	if e.Link == "" && strings.HasPrefix(item.GUID, "http") {
		e.Link = item.GUID
	}
	if item.Custom != nil {
		e.Source = item.Custom[sourceKey]
	}
	return e
}

// sourceTranslator carries the RSS <source> element, which the default
// translator drops, into Item.Custom.
type sourceTranslator struct {
	gofeed.DefaultRSSTranslator
}

func (t *sourceTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	f, err := t.DefaultRSSTranslator.Translate(feed)
	if err != nil {
		return nil, err
	}
	rssFeed, ok := feed.(*rss.Feed)
	if !ok || len(rssFeed.Items) != len(f.Items) {
		return f, nil
	}
	for i, it := range rssFeed.Items {
		if it.Source == nil {
			continue
		}
		name := strings.TrimSpace(it.Source.Title)
		if name == "" {
			continue
		}
		if f.Items[i].Custom == nil {
			f.Items[i].Custom = make(map[string]string)
		}
		f.Items[i].Custom[sourceKey] = name
	}
	return f, nil
}
