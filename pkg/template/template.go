// Package template renders the small text templates embedded in drawings
// and used for output file names. Templates use the Django/Jinja syntax
// implemented by github.com/flosch/pongo2.
package template

import (
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/barnhunt/barnhunt/pkg/coursemaps"
	"github.com/barnhunt/barnhunt/pkg/errors"
)

func init() {
	if !pongo2.FilterExists("safepath") {
		pongo2.RegisterFilter("safepath", filterSafePath)
	}
}

// Template is a compiled template.
type Template struct {
	source string
	tpl    *pongo2.Template
}

// Compile parses source. Output is never HTML-escaped.
func Compile(source string) (*Template, error) {
	tpl, err := pongo2.FromString("{% autoescape off %}" + source + "{% endautoescape %}")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "parse template %q", source)
	}
	return &Template{source: source, tpl: tpl}, nil
}

// Source returns the template text.
func (t *Template) Source() string { return t.source }

// Render executes the template with vars. The rats function is always
// available.
func (t *Template) Render(vars map[string]any) (string, error) {
	ctx := pongo2.Context{"rats": rats}
	for k, v := range vars {
		ctx[k] = v
	}
	out, err := t.tpl.Execute(ctx)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidTemplate, err, "render template %q", t.source)
	}
	return out, nil
}

// Render compiles and executes source.
func Render(source string, vars map[string]any) (string, error) {
	t, err := Compile(source)
	if err != nil {
		return "", err
	}
	return t.Render(vars)
}

// IsStringLiteral reports whether s is plain text without template syntax.
func IsStringLiteral(s string) bool {
	return !strings.Contains(s, "{{") && !strings.Contains(s, "{%") && !strings.Contains(s, "{#")
}

func filterSafePath(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsString() || !in.CanSlice() {
		return pongo2.AsValue(coursemaps.SafePath(in.String())), nil
	}
	out := make([]string, in.Len())
	for i := range out {
		out[i] = coursemaps.SafePath(in.Index(i).String())
	}
	return pongo2.AsValue(out), nil
}
