package coursemaps

import (
	"regexp"
	"strings"
)

var unsafePathRe = regexp.MustCompile(`[\x00-\x20/\\\x7f\s\p{Z}]`)

// SafePath replaces characters that are awkward in file names (control
// characters, whitespace, slashes) with underscores.
func SafePath(s string) string {
	return unsafePathRe.ReplaceAllString(s, "_")
}

// Describe returns a human readable description of the view, the overlay
// labels joined by slashes.
func Describe(ctx Context) string {
	return strings.Join(ctx.Labels(), "/")
}
