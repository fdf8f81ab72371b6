package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPISource searches NewsAPI. Country is ignored; NewsAPI only filters
// by language.
type NewsAPISource struct {
	BaseURL  string
	apiKey   string
	pageSize int
	client   *http.Client
}

// NewNewsAPISource creates a NewsAPI source reading its key from apiKeyEnv.
func NewNewsAPISource(apiKeyEnv, baseURL string, timeout time.Duration) *NewsAPISource {
	if baseURL == "" {
		baseURL = newsAPIBaseURL
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &NewsAPISource{
		BaseURL:  baseURL,
		apiKey:   os.Getenv(apiKeyEnv),
		pageSize: 100,
		client:   &http.Client{Timeout: timeout},
	}
}

// IsConfigured returns whether the API key is available.
func (c *NewsAPISource) IsConfigured() bool {
	return c.apiKey != ""
}

// Fetch implements Source.
func (c *NewsAPISource) Fetch(ctx context.Context, query string, loc Locale) ([]Entry, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("NewsAPI key not configured")
	}

	params := url.Values{
		"q":        {query},
		"language": {loc.LanguageCode()},
		"pageSize": {fmt.Sprintf("%d", c.pageSize)},
		"sortBy":   {"publishedAt"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("NewsAPI error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NewsAPI HTTP error: %d", resp.StatusCode)
	}

	var result struct {
		Status   string `json:"status"`
		Message  string `json:"message"`
		Articles []struct {
			URL         string `json:"url"`
			Title       string `json:"title"`
			PublishedAt string `json:"publishedAt"`
			Description string `json:"description"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if result.Status != "ok" {
		return nil, fmt.Errorf("NewsAPI status %q: %s", result.Status, result.Message)
	}

	entries := make([]Entry, 0, len(result.Articles))
	for _, a := range result.Articles {
		if a.Title == "[Removed]" || a.URL == "https://removed.com" {
			continue
		}
		e := Entry{
			Title:       a.Title,
			Description: a.Description,
			Link:        a.URL,
			Source:      a.Source.Name,
		}
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			e.Published = &t
		}
		entries = append(entries, e)
	}
	return entries, nil
}
