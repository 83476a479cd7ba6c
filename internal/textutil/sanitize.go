// Package textutil holds small string helpers shared by artifact naming.
package textutil

import "strings"

// fileNameReplacer replaces filesystem-unsafe characters with safe
// alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	" ", "_",
)

// SanitizeFileName makes a host-supplied identifier safe to embed in an
// artifact file name. Slashes, backslashes, colons and asterisks become
// dashes, spaces become underscores, other unsafe characters are removed.
// Returns "unknown" when nothing survives.
func SanitizeFileName(name string) string {
	cleaned := strings.TrimSpace(fileNameReplacer.Replace(strings.TrimSpace(name)))
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		return "unknown"
	}
	return cleaned
}
