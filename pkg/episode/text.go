package episode

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText strips markup from a show-notes description and collapses
// whitespace. Block boundaries become single spaces.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	// Keep words on either side of a removed tag apart.
	s = strings.ReplaceAll(s, "<", " <")
	s = html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// Summary is the plain description, or "-" when there is none.
func (e Episode) Summary() string {
	if s := PlainText(e.Description); s != "" {
		return s
	}
	return "-"
}
