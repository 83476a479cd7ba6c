package analysis

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`(?i)</?[a-z][^>]*>`)

// SanitizeHTML strips every tag except <b>, </b>, <i>, </i> and <br/> from
// externally supplied text. The PDF library accepts only that subset and is
// strict about everything else, so this must run on any string that did not
// originate from this package's fragment builders.
func SanitizeHTML(input string) string {
	return tagPattern.ReplaceAllStringFunc(input, func(tag string) string {
		switch strings.ToLower(strings.ReplaceAll(tag, " ", "")) {
		case "<b>", "</b>", "<i>", "</i>":
			return strings.ToLower(strings.ReplaceAll(tag, " ", ""))
		case "<br/>", "<br>", "</br>":
			return "<br/>"
		default:
			return ""
		}
	})
}
