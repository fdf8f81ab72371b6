// Package lexicon holds the domain word lists that override statistical
// sentiment for terms general models misread.
package lexicon

import "strings"

// Verdict is the outcome of matching text against the tables.
type Verdict int

const (
	None Verdict = iota
	Negative
	Positive
)

func (v Verdict) String() string {
	switch v {
	case Negative:
		return "negative"
	case Positive:
		return "positive"
	default:
		return "none"
	}
}

// Tables are the positive and negative trigger lists. Entries are matched
// as lower-case substrings, so "control" also matches "descontrol".
type Tables struct {
	Positive []string
	Negative []string
}

// New lower-cases and trims the given lists, dropping empty entries.
func New(positive, negative []string) *Tables {
	return &Tables{Positive: clean(positive), Negative: clean(negative)}
}

// Match checks text against the negative list first, then the positive list.
func (t *Tables) Match(text string) (Verdict, string) {
	low := strings.ToLower(text)
	for _, term := range t.Negative {
		if strings.Contains(low, term) {
			return Negative, term
		}
	}
	for _, term := range t.Positive {
		if strings.Contains(low, term) {
			return Positive, term
		}
	}
	return None, ""
}

func clean(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
