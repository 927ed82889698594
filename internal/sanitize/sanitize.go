// Package sanitize implements the update-content text transform: HTML
// entity escaping with an allow-listed tag vocabulary, followed by
// auto-closing any tag left open at end of input.
package sanitize

import (
	"regexp"
	"strings"
)

// allowedTags is the tag vocabulary permitted in update content. Everything
// else is escaped to entities.
var allowedTags = []string{"b", "i", "u", "em", "strong", "code"}

var tagRe = regexp.MustCompile(`</?(` + strings.Join(allowedTags, "|") + `)>`)

// Clean escapes markup and closes unterminated allow-listed tags. This is
// what gets stored; content is sanitized exactly once, at creation.
func Clean(s string) string {
	return CloseTags(EscapeEntities(s))
}

// EscapeEntities converts <, >, and " to entities, then restores the
// allow-listed tags (both opening and closing forms).
func EscapeEntities(s string) string {
	escaped := strings.NewReplacer("<", "&lt;", ">", "&gt;", `"`, "&quot;").Replace(s)
	for _, tag := range allowedTags {
		escaped = strings.ReplaceAll(escaped, "&lt;"+tag+"&gt;", "<"+tag+">")
		escaped = strings.ReplaceAll(escaped, "&lt;/"+tag+"&gt;", "</"+tag+">")
	}
	return escaped
}

// CloseTags appends closing tags for any allow-listed tag left open, so
// styling can't bleed past the update. A closing tag only pops the stack
// when it matches the most recently opened tag; stray closers are left
// alone. The output is not guaranteed to be valid HTML, just contained.
func CloseTags(s string) string {
	var open []string
	for _, match := range tagRe.FindAllString(s, -1) {
		if strings.HasPrefix(match, "</") {
			tag := match[2 : len(match)-1]
			if len(open) > 0 && open[len(open)-1] == tag {
				open = open[:len(open)-1]
			}
			continue
		}
		open = append(open, match[1:len(match)-1])
	}
	var b strings.Builder
	b.WriteString(s)
	for i := len(open) - 1; i >= 0; i-- {
		b.WriteString("</" + open[i] + ">")
	}
	return b.String()
}
