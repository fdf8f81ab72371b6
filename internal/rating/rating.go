// Package rating reduces scored items to 1-7 ratings and labels.
package rating

import (
	"github.com/TobiSchelling/RepMonitor/internal/news"
)

// Aggregate maps the mean item score onto 1-7, rounded to one decimal.
// An empty slice yields news.NoData.
func Aggregate(items []news.NewsItem) news.Rating {
	if len(items) == 0 {
		return news.NoData
	}
	var sum float64
	for _, it := range items {
		sum += it.Score
	}
	mean := sum / float64(len(items))
	return news.RoundRating(1 + mean*6)
}

// Thresholds split ratings into climates. Both bounds are inclusive.
type Thresholds struct {
	Positive float64
	Negative float64
}

// DefaultThresholds returns 4.5 / 2.9.
func DefaultThresholds() Thresholds {
	return Thresholds{Positive: 4.5, Negative: 2.9}
}

// Climate labels a rating: >= Positive is positive, <= Negative is negative.
func (t Thresholds) Climate(r news.Rating) news.Climate {
	switch {
	case float64(r) >= t.Positive:
		return news.Positive
	case float64(r) <= t.Negative:
		return news.Negative
	default:
		return news.Neutral
	}
}

// Label is the per-item display verdict.
type Label int

const (
	LabelNeutral Label = iota
	LabelGood
	LabelBad
)

func (l Label) String() string {
	switch l {
	case LabelGood:
		return "good"
	case LabelBad:
		return "bad"
	default:
		return "neutral"
	}
}

// MarshalText renders labels as strings in JSON.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ItemThresholds drive per-item labels. These are separate from the
// summary's positive/negative counting thresholds.
type ItemThresholds struct {
	Good float64
	Bad  float64
}

// DefaultItemThresholds returns 0.65 / 0.4.
func DefaultItemThresholds() ItemThresholds {
	return ItemThresholds{Good: 0.65, Bad: 0.4}
}

// Label classifies a single item score. Both bounds are exclusive.
func (t ItemThresholds) Label(score float64) Label {
	switch {
	case score > t.Good:
		return LabelGood
	case score < t.Bad:
		return LabelBad
	default:
		return LabelNeutral
	}
}
