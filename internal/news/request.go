package news

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyQuery is returned for a request without topic text.
	ErrEmptyQuery = errors.New("topic is empty")
	// ErrUnknownPeriod is returned when the period label has no lookback mapping.
	ErrUnknownPeriod = errors.New("unknown period")
)

// SearchRequest is one analysis request.
type SearchRequest struct {
	Topic  string
	Period string
}

// Validate checks the request against the configured period labels.
func (r SearchRequest) Validate(periods map[string]int) error {
	if StripQuotes(r.Topic) == "" {
		return ErrEmptyQuery
	}
	if _, ok := periods[r.Period]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPeriod, r.Period)
	}
	return nil
}

var quoteReplacer = strings.NewReplacer(
	"«", `"`, "»", `"`,
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
	"‹", `"`, "›", `"`,
	"＂", `"`,
)

// NormalizeQuotes rewrites typographic quote marks as ASCII double quotes,
// the phrase delimiter search engines understand.
func NormalizeQuotes(topic string) string {
	return quoteReplacer.Replace(topic)
}

// IsQuoted reports whether the topic contains phrase quotes, ASCII or
// typographic.
func IsQuoted(topic string) bool {
	return strings.Contains(NormalizeQuotes(topic), `"`)
}

// StripQuotes removes quote delimiters from a topic.
func StripQuotes(topic string) string {
	return strings.TrimSpace(strings.ReplaceAll(NormalizeQuotes(topic), `"`, ""))
}
