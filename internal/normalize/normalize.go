// Package normalize turns raw feed markup into plain prose.
package normalize

import (
	"html"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<.*?>`)

// Text decodes entities, removes markup and collapses whitespace. It is
// applied until the output stops changing so that double-encoded markup
// cannot survive a first pass and Text(Text(x)) == Text(x).
func Text(raw string) string {
	s := raw
	// A pass that changes the text always shortens it, so this terminates.
	for {
		next := pass(s)
		if next == s {
			return s
		}
		s = next
	}
}

func pass(s string) string {
	s = html.UnescapeString(s)
	s = tagPattern.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "...", "")
	return strings.Join(strings.Fields(s), " ")
}
