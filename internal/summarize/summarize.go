// Package summarize writes the narrative paragraph shown above the feed.
package summarize

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/TobiSchelling/RepMonitor/internal/news"
)

// InsufficientData is returned for an empty item set.
const InsufficientData = "Not enough news to build a summary for this topic and period."

const (
	topConcepts    = 3
	minTokenLength = 5
)

// Thresholds decide which items count as clearly positive or negative in
// the closing sentence.
type Thresholds struct {
	Positive float64
	Negative float64
}

// DefaultThresholds returns 0.60 / 0.30.
func DefaultThresholds() Thresholds {
	return Thresholds{Positive: 0.60, Negative: 0.30}
}

// Summarizer is a deterministic template filler.
type Summarizer struct {
	stopWords  map[string]struct{}
	thresholds Thresholds
}

// New creates a Summarizer; stop words are lower-cased.
func New(stopWords []string, thresholds Thresholds) *Summarizer {
	sw := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		sw[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return &Summarizer{stopWords: sw, thresholds: thresholds}
}

// Summarize describes items given the combined rating and the topic as typed.
func (s *Summarizer) Summarize(items []news.NewsItem, global news.Rating, query string) string {
	if len(items) == 0 {
		return InsufficientData
	}

	concepts := s.TrendingConcepts(items, query)
	pos, neg := s.Counts(items)

	parts := []string{
		fmt.Sprintf("Analysis of %d news items.", len(items)),
		climateSentence(global),
		trendingSentence(concepts),
		closingSentence(pos, neg),
	}
	return strings.Join(parts, " ")
}

// TrendingConcepts returns up to three content words ranked by frequency,
// ties broken by first appearance.
func (s *Summarizer) TrendingConcepts(items []news.NewsItem, query string) []string {
	exclude := make(map[string]struct{})
	for _, tok := range tokenize(news.StripQuotes(query)) {
		exclude[tok] = struct{}{}
	}

	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Text
	}

	counts := make(map[string]int)
	var order []string
	for _, tok := range tokenize(strings.Join(texts, " ")) {
		if utf8.RuneCountInString(tok) < minTokenLength {
			continue
		}
		if _, ok := s.stopWords[tok]; ok {
			continue
		}
		if _, ok := exclude[tok]; ok {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	// Selection over first-occurrence order keeps ties stable.
	var top []string
	used := make(map[string]bool)
	for len(top) < topConcepts && len(top) < len(order) {
		best := ""
		for _, tok := range order {
			if used[tok] {
				continue
			}
			if best == "" || counts[tok] > counts[best] {
				best = tok
			}
		}
		used[best] = true
		top = append(top, best)
	}
	return top
}

// Counts returns how many items are clearly positive and clearly negative.
func (s *Summarizer) Counts(items []news.NewsItem) (positive, negative int) {
	for _, it := range items {
		switch {
		case it.Score > s.thresholds.Positive:
			positive++
		case it.Score < s.thresholds.Negative:
			negative++
		}
	}
	return positive, negative
}

func climateSentence(r news.Rating) string {
	v := float64(r)
	switch {
	case v >= 5.5:
		return fmt.Sprintf("The overall media climate is highly favorable (%.1f/7).", v)
	case v >= 4.5:
		return fmt.Sprintf("The overall media climate is positive (%.1f/7).", v)
	case v <= 2.5:
		return fmt.Sprintf("Coverage points to a severe reputation crisis (%.1f/7).", v)
	case v <= 3.5:
		return fmt.Sprintf("The media climate is critical (%.1f/7).", v)
	default:
		return fmt.Sprintf("The media climate is stable and cautious (%.1f/7).", v)
	}
}

func trendingSentence(concepts []string) string {
	if len(concepts) == 0 {
		return "No trending concepts stand out beyond the topic itself."
	}
	quoted := make([]string, len(concepts))
	for i, c := range concepts {
		quoted[i] = `"` + c + `"`
	}
	if len(quoted) == 1 {
		return "The trending concept is " + quoted[0] + "."
	}
	return "Trending concepts: " + strings.Join(quoted[:len(quoted)-1], ", ") + " and " + quoted[len(quoted)-1] + "."
}

func closingSentence(pos, neg int) string {
	switch {
	case neg == 0 && pos > 0:
		return fmt.Sprintf("Notably, there is an absence of negative news, with %d clearly favorable items.", pos)
	case neg > pos:
		return fmt.Sprintf("Warning: negative coverage (%d items) outweighs positive coverage (%d items).", neg, pos)
	case pos > neg:
		return fmt.Sprintf("Reassuringly, positive coverage (%d items) outweighs negative coverage (%d items).", pos, neg)
	default:
		return fmt.Sprintf("Coverage shows polarization, with %d positive and %d negative items.", pos, neg)
	}
}

// tokenize lower-cases text, drops punctuation and symbols, and splits on
// whitespace.
func tokenize(text string) []string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, strings.ToLower(text))
	return strings.Fields(clean)
}
