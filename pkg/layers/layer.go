package layers

import (
	"github.com/beevik/etree"

	"github.com/barnhunt/barnhunt/pkg/svg"
)

// Layer is a classified view of a layer element.
type Layer struct {
	elem       *etree.Element
	classifier *Classifier
	info       Info
}

// NewLayer classifies elem with c.
func NewLayer(elem *etree.Element, c *Classifier) *Layer {
	return &Layer{elem: elem, classifier: c, info: c.Classify(elem)}
}

// Element returns the underlying layer element.
func (l *Layer) Element() *etree.Element { return l.elem }

// Info returns the classification of the layer.
func (l *Layer) Info() Info { return l.info }

// ID returns the id attribute of the layer element.
func (l *Layer) ID() string { return svg.LayerID(l.elem) }

// Label returns the display label with any flag tag stripped.
func (l *Layer) Label() string { return l.info.Label }

// OutputBasename returns the basename carried by the layer's tag, or "".
func (l *Layer) OutputBasename() string { return l.info.OutputBasename }

// IsOverlay reports whether the layer is an overlay.
func (l *Layer) IsOverlay() bool { return l.info.IsOverlay() }

// IsHidden reports whether the layer is flagged hidden.
func (l *Layer) IsHidden() bool { return l.info.IsHidden() }

// Parent returns the enclosing layer, or nil at the top level.
func (l *Layer) Parent() *Layer {
	p := svg.ParentLayer(l.elem)
	if p == nil {
		return nil
	}
	return NewLayer(p, l.classifier)
}

// Lineage returns l followed by its ancestors, innermost first.
func (l *Layer) Lineage() []*Layer {
	var out []*Layer
	for cur := l; cur != nil; cur = cur.Parent() {
		out = append(out, cur)
	}
	return out
}

// Overlay returns the innermost overlay among l and its ancestors.
func (l *Layer) Overlay() *Layer {
	for _, a := range l.Lineage() {
		if a.IsOverlay() {
			return a
		}
	}
	return nil
}

// Overlays returns the overlays among l and its ancestors, outermost first.
func (l *Layer) Overlays() []*Layer {
	lineage := l.Lineage()
	var out []*Layer
	for i := len(lineage) - 1; i >= 0; i-- {
		if lineage[i].IsOverlay() {
			out = append(out, lineage[i])
		}
	}
	return out
}

// String returns the display label.
func (l *Layer) String() string { return l.info.Label }
