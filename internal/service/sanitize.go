package service

import (
	"regexp"
	"strings"
)

var (
	// A tag-like run opens with a letter, slash, or bang. A bare "<"
	// followed by a space is a comparison operator, not a tag: clinical
	// text such as "BP < 140/90 and LDL > 100" must keep the values
	// between the brackets and lose only the brackets themselves.
	tagPattern    = regexp.MustCompile(`<[a-zA-Z/!][^<>]*>`)
	entityPattern = regexp.MustCompile(`&#?[a-zA-Z0-9]+;`)
	strayMarkup   = strings.NewReplacer("<", "", ">", "", "&", "")
)

// Sanitize neutralizes markup in a string so it is safe to embed in
// rendered output. Tag-like runs and entity references are stripped, then
// any leftover angle brackets and ampersands are dropped. The function is
// pure, total, and idempotent: sanitizing a sanitized string is a no-op.
//
// Leftover markup characters are removed rather than entity-escaped;
// escaping would emit &amp;-style sequences that the entity pass strips
// again, which breaks idempotency.
func Sanitize(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = entityPattern.ReplaceAllString(s, "")
	s = strayMarkup.Replace(s)
	return strings.TrimSpace(s)
}
