package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultGoogleURL is the keyless endpoint used by browser extensions.
const DefaultGoogleURL = "https://translate.googleapis.com/translate_a/single"

// GoogleTranslator calls the public Google Translate endpoint with source
// language auto-detection.
type GoogleTranslator struct {
	BaseURL string
	client  *http.Client
}

// NewGoogleTranslator creates a translator; an empty baseURL uses DefaultGoogleURL.
func NewGoogleTranslator(baseURL string, timeout time.Duration) *GoogleTranslator {
	if baseURL == "" {
		baseURL = DefaultGoogleURL
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &GoogleTranslator{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Translate implements Translator.
func (g *GoogleTranslator) Translate(ctx context.Context, text string) (string, error) {
	params := url.Values{
		"client": {"gtx"},
		"sl":     {"auto"},
		"tl":     {Target},
		"dt":     {"t"},
		"q":      {text},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "RepMonitor/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google translate error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("google translate returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload []any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return joinSegments(payload)
}

// joinSegments reads the sentence array at payload[0]; each sentence is an
// array whose first element is the translated chunk.
func joinSegments(payload []any) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("unexpected response shape: empty payload")
	}
	sentences, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected response shape: %T", payload[0])
	}

	var b strings.Builder
	for _, s := range sentences {
		parts, ok := s.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if chunk, ok := parts[0].(string); ok {
			b.WriteString(chunk)
		}
	}
	return b.String(), nil
}
