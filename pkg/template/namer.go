package template

import (
	"strings"

	"github.com/barnhunt/barnhunt/pkg/coursemaps"
	"github.com/barnhunt/barnhunt/pkg/errors"
)

// DefaultBasenameTemplate names a view after its overlay labels.
const DefaultBasenameTemplate = `{{ overlays|safepath|join:"/" }}`

// Namer derives output basenames for views.
type Namer struct {
	tmpl *Template
}

// NewNamer compiles source, or DefaultBasenameTemplate when source is empty.
func NewNamer(source string) (*Namer, error) {
	if source == "" {
		source = DefaultBasenameTemplate
	}
	tmpl, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return &Namer{tmpl: tmpl}, nil
}

// Basename returns the output basename (without extension) for ctx. An
// overlay carrying an explicit basename wins, the innermost one first.
// Otherwise the template is rendered; an empty result falls back to the
// source file name.
func (n *Namer) Basename(ctx coursemaps.Context) (string, error) {
	name := ctx.OutputBasename
	if name == "" {
		rendered, err := n.tmpl.Render(ctx.Values())
		if err != nil {
			return "", err
		}
		name = strings.TrimSpace(rendered)
	}
	if name == "" {
		name, _ = ctx.Vars[coursemaps.VarSVGName].(string)
	}
	if err := errors.ValidateOutputBasename(name); err != nil {
		return "", err
	}
	return name, nil
}
