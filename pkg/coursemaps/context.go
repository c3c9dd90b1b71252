package coursemaps

import (
	"maps"

	"github.com/beevik/etree"

	"github.com/barnhunt/barnhunt/pkg/layers"
	"github.com/barnhunt/barnhunt/pkg/svg"
)

// Vars holds document-scoped values such as the random seed and the source
// file token. They are made available to templates unchanged.
type Vars map[string]any

// Well-known Vars keys.
const (
	VarRandomSeed = "random_seed"
	VarSVGFile    = "svgfile"
	VarSVGName    = "svgname"
)

// Context is the set of values describing one view, or the position of
// one text element.
type Context struct {
	// Overlays are the selected overlays, outermost first.
	Overlays []*layers.Layer
	// Course is the outermost overlay, nil when there is none.
	Course *layers.Layer
	// Overlay is the innermost overlay when more than one is selected.
	Overlay *layers.Layer
	// OutputBasename is the basename of the innermost overlay setting one.
	OutputBasename string
	// OutputBasenames lists every overlay basename, outermost first.
	OutputBasenames []string
	// Layer is the layer enclosing a text element. Nil for views.
	Layer *layers.Layer
	Vars  Vars
}

// NewContext builds the context of the view selecting path.
func NewContext(path []*etree.Element, c *layers.Classifier, vars Vars) Context {
	overlays := make([]*layers.Layer, len(path))
	for i, elem := range path {
		overlays[i] = layers.NewLayer(elem, c)
	}
	return newContext(overlays, vars)
}

// ElementContext builds the context of elem from its enclosing layer: the
// overlays are the overlay ancestors of that layer (itself included),
// outermost first. ok is false when elem is not inside any layer.
func ElementContext(elem *etree.Element, c *layers.Classifier, vars Vars) (ctx Context, ok bool) {
	enclosing := svg.EnclosingLayer(elem)
	if enclosing == nil {
		return Context{Vars: maps.Clone(vars)}, false
	}
	layer := layers.NewLayer(enclosing, c)
	ctx = newContext(layer.Overlays(), vars)
	ctx.Layer = layer
	return ctx, true
}

func newContext(overlays []*layers.Layer, vars Vars) Context {
	ctx := Context{Overlays: overlays, Vars: maps.Clone(vars)}
	if len(overlays) > 0 {
		ctx.Course = overlays[0]
	}
	if len(overlays) > 1 {
		ctx.Overlay = overlays[len(overlays)-1]
	}
	for _, o := range overlays {
		if b := o.OutputBasename(); b != "" {
			ctx.OutputBasenames = append(ctx.OutputBasenames, b)
			ctx.OutputBasename = b
		}
	}
	return ctx
}

// Labels returns the display labels of the overlays, outermost first.
func (c Context) Labels() []string {
	out := make([]string, len(c.Overlays))
	for i, o := range c.Overlays {
		out[i] = o.Label()
	}
	return out
}

// Values flattens the context into template variables. Layers become
// LayerValue maps so that templates can write {{ course.label }}.
func (c Context) Values() map[string]any {
	v := make(map[string]any, len(c.Vars)+7)
	maps.Copy(v, c.Vars)

	overlays := make([]LayerValue, len(c.Overlays))
	for i, o := range c.Overlays {
		overlays[i] = NewLayerValue(o)
	}
	v["overlays"] = overlays
	v["course"] = layerOrNil(c.Course)
	v["overlay"] = layerOrNil(c.Overlay)
	v["layer"] = layerOrNil(c.Layer)
	v["output_basename"] = c.OutputBasename
	v["output_basenames"] = c.OutputBasenames
	return v
}

func layerOrNil(l *layers.Layer) any {
	if l == nil {
		return nil
	}
	return NewLayerValue(l)
}

// LayerValue exposes a layer to templates. Navigation entries (parent,
// overlay, lineage) are functions so they are resolved on access.
type LayerValue map[string]any

// NewLayerValue returns the template view of l.
func NewLayerValue(l *layers.Layer) LayerValue {
	return LayerValue{
		"id":              l.ID(),
		"label":           l.Label(),
		"output_basename": l.OutputBasename(),
		"is_overlay":      l.IsOverlay(),
		"parent":          func() any { return layerOrNil(l.Parent()) },
		"overlay":         func() any { return layerOrNil(l.Overlay()) },
		"lineage": func() []LayerValue {
			lineage := l.Lineage()
			out := make([]LayerValue, len(lineage))
			for i, a := range lineage {
				out[i] = NewLayerValue(a)
			}
			return out
		},
	}
}

// String returns the layer label.
func (lv LayerValue) String() string {
	s, _ := lv["label"].(string)
	return s
}
