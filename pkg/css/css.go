// Package css edits the inline CSS found in SVG style attributes.
//
// Inkscape records layer visibility as a declaration in the layer's style
// attribute (style="display:none"). Style parses such a declaration list with
// douceur, lets callers read and replace single properties, and serializes
// the result back in Inkscape's compact form ("prop:value;prop:value").
package css

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// Style is an ordered list of CSS declarations.
// Property names compare case-insensitively; when a property is declared
// more than once the last declaration wins, as in a browser.
type Style struct {
	decls []*css.Declaration
}

// Parse parses the content of a style attribute.
// An empty string yields an empty Style.
func Parse(s string) (*Style, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return &Style{}, nil
	}
	// douceur drops the value of an unterminated final declaration.
	if !strings.HasSuffix(s, ";") {
		s += ";"
	}
	decls, err := parser.ParseDeclarations(s)
	if err != nil {
		return nil, err
	}
	for _, d := range decls {
		d.Property = strings.TrimSpace(d.Property)
		d.Value = strings.TrimSpace(d.Value)
	}
	return &Style{decls: decls}, nil
}

// Get returns the value of the last declaration of prop.
func (s *Style) Get(prop string) (string, bool) {
	for i := len(s.decls) - 1; i >= 0; i-- {
		if strings.EqualFold(s.decls[i].Property, prop) {
			return s.decls[i].Value, true
		}
	}
	return "", false
}

// Set replaces every declaration of prop with a single declaration
// appended at the end.
func (s *Style) Set(prop, value string) {
	s.Delete(prop)
	s.decls = append(s.decls, &css.Declaration{Property: prop, Value: value})
}

// Delete removes every declaration of prop.
func (s *Style) Delete(prop string) {
	kept := s.decls[:0]
	for _, d := range s.decls {
		if !strings.EqualFold(d.Property, prop) {
			kept = append(kept, d)
		}
	}
	s.decls = kept
}

// Properties returns the declared property names in declaration order.
// Repeated properties are listed once, spelled as first declared.
func (s *Style) Properties() []string {
	seen := make(map[string]bool, len(s.decls))
	var props []string
	for _, d := range s.decls {
		key := strings.ToLower(d.Property)
		if seen[key] {
			continue
		}
		seen[key] = true
		props = append(props, d.Property)
	}
	return props
}

// Len returns the number of distinct properties.
func (s *Style) Len() int {
	return len(s.Properties())
}

// String serializes the declarations as "prop:value;prop:value".
func (s *Style) String() string {
	parts := make([]string, 0, len(s.decls))
	for _, d := range s.decls {
		v := d.Value
		if d.Important {
			v += " !important"
		}
		parts = append(parts, d.Property+":"+v)
	}
	return strings.Join(parts, ";")
}
