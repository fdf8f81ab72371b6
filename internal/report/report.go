// Package report renders an analysis result as Markdown.
package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/TobiSchelling/RepMonitor/internal/collect"
	"github.com/TobiSchelling/RepMonitor/internal/news"
	"github.com/TobiSchelling/RepMonitor/internal/pipeline"
	"github.com/TobiSchelling/RepMonitor/internal/rating"
)

// DefaultCardLength is the number of characters shown per feed entry.
const DefaultCardLength = 120

// NoResults is rendered when neither feed produced an item.
const NoResults = "No news found for this topic and period."

// Options control rendering.
type Options struct {
	Labels     rating.ItemThresholds
	CardLength int
}

// DefaultOptions returns the standard card layout.
func DefaultOptions() Options {
	return Options{Labels: rating.DefaultItemThresholds(), CardLength: DefaultCardLength}
}

// Markdown renders r as a Markdown document.
func Markdown(r *pipeline.Result, opts Options) string {
	if opts.CardLength <= 0 {
		opts.CardLength = DefaultCardLength
	}
	if opts.Labels == (rating.ItemThresholds{}) {
		opts.Labels = rating.DefaultItemThresholds()
	}

	var sections []string
	sections = append(sections, header(r))

	if r.Empty() {
		sections = append(sections, NoResults)
		return strings.Join(sections, "\n\n") + "\n"
	}

	sections = append(sections, ratingsTable(r))
	sections = append(sections, "## Summary\n\n"+r.Summary)

	var cards []string
	for _, it := range r.Items {
		cards = append(cards, Card(it, opts))
	}
	sections = append(sections, "## Feed\n\n"+strings.Join(cards, "\n"))

	return strings.Join(sections, "\n\n") + "\n"
}

func header(r *pipeline.Result) string {
	h := fmt.Sprintf("# %s\n\n_Period: %s, since %s_",
		escape(r.Topic), r.Period, r.Cutoff.Format("2006-01-02 15:04"))
	if r.TranslatedTopic != "" && r.TranslatedTopic != r.Topic {
		h += fmt.Sprintf("\n\n_International query: %s_", escape(r.TranslatedTopic))
	}
	return h
}

func ratingsTable(r *pipeline.Result) string {
	rows := []struct {
		name  string
		score pipeline.Score
	}{
		{"Domestic", r.Domestic},
		{"International", r.International},
		{"Combined", r.Combined},
	}

	var b strings.Builder
	b.WriteString("## Ratings\n\n")
	b.WriteString("| Feed | Rating | Climate | Items |\n")
	b.WriteString("|------|--------|---------|-------|\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %d |\n", row.name, FormatRating(row.score.Rating), climateLabel(row.score), row.score.Items)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatRating prints "6.4 / 7", or "n/a" when there was no data.
func FormatRating(r news.Rating) string {
	if !r.HasData() {
		return "n/a"
	}
	return fmt.Sprintf("%.1f / 7", float64(r))
}

func climateLabel(s pipeline.Score) string {
	if !s.Rating.HasData() {
		return "-"
	}
	return s.Climate.String()
}

// Card renders one feed entry as a list item.
func Card(it news.NewsItem, opts Options) string {
	label := opts.Labels.Label(it.Score)
	text := escape(Truncate(it.Text, opts.CardLength))
	if it.Link != "" && it.Link != collect.MissingLink {
		text = fmt.Sprintf("[%s](%s)", text, linkEscaper.Replace(it.Link))
	}
	return fmt.Sprintf("- **%s %.2f** %s (%s, %s, %s)",
		label, it.Score, text, escape(it.Source), it.Bucket, it.PublishedAt.Format("2006-01-02 15:04"))
}

// Truncate cuts text to at most n characters, marking the cut with "...".
func Truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return strings.TrimRight(string(runes[:n]), " ") + "..."
}

// linkEscaper percent-encodes characters that would end a link destination.
var linkEscaper = strings.NewReplacer(
	" ", "%20",
	"(", "%28",
	")", "%29",
	"<", "%3C",
	">", "%3E",
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"[", `\[`,
	"]", `\]`,
	"*", `\*`,
	"_", `\_`,
	"|", `\|`,
	"`", "\\`",
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
