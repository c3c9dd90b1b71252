// Package layers classifies Inkscape layers for course map generation.
//
// Two labeling conventions are supported. The explicit convention prefixes
// layer labels with a bracketed tag such as "[o|blinds] Blind 1". The legacy
// convention infers the role of each layer from keywords in its label
// ("Ring", course names, a parent layer named "Overlays"). Detect picks the
// convention once per document.
package layers

import "strings"

// Flags is the set of roles a layer can carry.
type Flags uint8

const (
	// Hidden layers are never shown in any generated map.
	Hidden Flags = 1 << iota
	// Overlay layers are mutually exclusive alternatives; each one
	// produces its own map.
	Overlay
)

var flagChars = []struct {
	flag Flags
	char rune
}{
	{Hidden, 'h'},
	{Overlay, 'o'},
}

// Has reports whether every flag in other is set in f.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

// String renders the flag characters, e.g. "ho".
func (f Flags) String() string {
	var b strings.Builder
	for _, fc := range flagChars {
		if f&fc.flag != 0 {
			b.WriteRune(fc.char)
		}
	}
	return b.String()
}

// ParseFlags parses a string of flag characters. Order and repetition do
// not matter. Characters that name no flag are returned in unknown, each
// once, in order of first appearance.
func ParseFlags(s string) (flags Flags, unknown string) {
	var bad []rune
	for _, c := range s {
		found := false
		for _, fc := range flagChars {
			if c == fc.char {
				flags |= fc.flag
				found = true
				break
			}
		}
		if !found && !strings.ContainsRune(string(bad), c) {
			bad = append(bad, c)
		}
	}
	return flags, string(bad)
}
