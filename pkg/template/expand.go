package template

import (
	"github.com/beevik/etree"
	"github.com/charmbracelet/log"

	"github.com/barnhunt/barnhunt/pkg/coursemaps"
	"github.com/barnhunt/barnhunt/pkg/layers"
	"github.com/barnhunt/barnhunt/pkg/svg"
)

// Expander expands templates found in the text of svg:tspan elements.
//
// The template source is kept in a bh:content attribute so that expanding
// an already expanded document renders the original template again.
type Expander struct {
	logger *log.Logger
}

// NewExpander returns an Expander logging to logger (log.Default() if nil).
func NewExpander(logger *log.Logger) *Expander {
	if logger == nil {
		logger = log.Default()
	}
	return &Expander{logger: logger}
}

// Expand returns a copy of doc with every template expanded. Templates that
// fail to parse or render are logged and left as they were.
func (x *Expander) Expand(doc *etree.Document, c *layers.Classifier, vars coursemaps.Vars) *etree.Document {
	out := doc.Copy()
	root := out.Root()
	if root == nil {
		return out
	}
	svg.DeclareNamespaces(root, map[string]string{"bh": svg.NamespaceBarnhunt})

	compiled := make(map[string]*Template)
	for _, e := range findAll(root, svg.NamespaceSVG, "tspan") {
		x.expandElement(e, c, vars, compiled)
	}
	return out
}

func (x *Expander) expandElement(e *etree.Element, c *layers.Classifier, vars coursemaps.Vars, compiled map[string]*Template) {
	source, ok := svg.Attr(e, svg.NamespaceBarnhunt, "content")
	if !ok {
		text := e.Text()
		if text == "" || IsStringLiteral(text) {
			return
		}
		source = text
		svg.SetAttr(e, svg.NamespaceBarnhunt, "content", source)
	}

	tmpl, ok := compiled[source]
	if !ok {
		var err error
		if tmpl, err = Compile(source); err != nil {
			x.logger.Error("invalid template", "id", svg.LayerID(e), "template", source, "err", err)
			return
		}
		compiled[source] = tmpl
	}

	ctx, _ := coursemaps.ElementContext(e, c, vars)
	text, err := tmpl.Render(ctx.Values())
	if err != nil {
		x.logger.Error("template expansion failed", "id", svg.LayerID(e), "template", source, "err", err)
		return
	}
	x.logger.Debug("expanded template", "template", source, "text", text)
	e.SetText(text)
}

func findAll(e *etree.Element, uri, local string) []*etree.Element {
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if svg.IsElement(c, uri, local) {
			out = append(out, c)
		}
		out = append(out, findAll(c, uri, local)...)
	}
	return out
}
