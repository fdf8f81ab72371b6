package news

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Bucket identifies which feed an item was collected from.
type Bucket int

const (
	Domestic Bucket = iota
	International
)

func (b Bucket) String() string {
	switch b {
	case Domestic:
		return "domestic"
	case International:
		return "international"
	default:
		return "unknown"
	}
}

// MarshalText renders the bucket label in JSON.
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// ParseBucket maps a configuration value to a Bucket.
func ParseBucket(s string) (Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "domestic":
		return Domestic, nil
	case "international":
		return International, nil
	}
	return 0, errors.New("unknown bucket: " + s)
}

// NewsItem is a scored, normalized feed entry.
type NewsItem struct {
	Text        string    `json:"text"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Score       float64   `json:"score"`
	Link        string    `json:"link"`
	Bucket      Bucket    `json:"bucket"`
}

// Rating is a 1-7 score rounded to one decimal. Zero means no data.
type Rating float64

// NoData is the sentinel rating of an empty item set.
const NoData Rating = 0

// HasData reports whether r came from at least one item.
func (r Rating) HasData() bool {
	return r != NoData
}

// RoundRating rounds to one decimal place.
func RoundRating(v float64) Rating {
	// Formatting rounds the exact binary value; scaling by 10 first can
	// push 3.8499999999999996 onto the 3.85 tie.
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return Rating(r)
}

// Climate is the qualitative reading of a Rating.
type Climate int

const (
	Neutral Climate = iota
	Positive
	Negative
)

func (c Climate) String() string {
	switch c {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// MarshalText lets climates render as labels in JSON.
func (c Climate) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// SortByPublished returns a copy of items ordered newest first.
func SortByPublished(items []NewsItem) []NewsItem {
	sorted := make([]NewsItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})
	return sorted
}
