// Package coursemaps enumerates the course maps contained in a layered
// drawing.
//
// Every overlay choice found along a path from the document root becomes
// one view. A view is the list of chosen overlays (outermost first) and the
// set of layers to suppress when rendering it: the global cruft, the
// alternatives not chosen at each level, and any layers excluded from the
// view's output file.
package coursemaps

import (
	"iter"
	"slices"
	"strings"

	"github.com/beevik/etree"

	"github.com/barnhunt/barnhunt/pkg/layers"
	"github.com/barnhunt/barnhunt/pkg/svg"
)

// View is one enumerated course map.
type View struct {
	// Path lists the chosen overlays, outermost first.
	Path []*etree.Element
	// Hidden holds the layers suppressed in this view.
	Hidden svg.ElementSet
}

// Enumerator enumerates the views of a document.
type Enumerator struct {
	Classifier *layers.Classifier
	// Vars are merged into every context built by Views.
	Vars Vars
}

// NewEnumerator returns an enumerator classifying layers with c.
func NewEnumerator(c *layers.Classifier, vars Vars) *Enumerator {
	return &Enumerator{Classifier: c, Vars: vars}
}

// Iterate yields the views below root in enumeration order. A document
// without layers yields nothing. The sequence may be stopped early and
// ranged over again.
func (en *Enumerator) Iterate(root *etree.Element) iter.Seq[View] {
	return func(yield func(View) bool) {
		if len(svg.ChildLayers(root)) == 0 {
			return
		}
		en.iterate(root, yield)
	}
}

func (en *Enumerator) iterate(elem *etree.Element, yield func(View) bool) bool {
	var overlays []*etree.Element
	cruft := svg.ElementSet{}
	svg.Walk(elem, func(layer *etree.Element) bool {
		info := en.Classifier.Classify(layer)
		switch {
		case info.IsHidden():
			cruft.Add(layer)
			return false
		case info.IsOverlay():
			overlays = append(overlays, layer)
			return false
		}
		return true
	})

	if len(overlays) == 0 {
		return yield(View{Hidden: cruft})
	}

	for i, o := range overlays {
		others := svg.NewElementSet(slices.Concat(overlays[:i], overlays[i+1:])...)
		more := en.iterate(o, func(sub View) bool {
			return yield(View{
				Path:   append([]*etree.Element{o}, sub.Path...),
				Hidden: sub.Hidden.Union(cruft, others),
			})
		})
		if !more {
			return false
		}
	}
	return true
}

// Views yields each view's context together with its final suppression
// set. Layers marked bh:exclude-from with the view's output basename are
// added to the suppression set.
func (en *Enumerator) Views(root *etree.Element) iter.Seq2[Context, svg.ElementSet] {
	return func(yield func(Context, svg.ElementSet) bool) {
		for view := range en.Iterate(root) {
			ctx := NewContext(view.Path, en.Classifier, en.Vars)
			hidden := view.Hidden
			if ctx.OutputBasename != "" {
				hidden = hidden.Union(Excluded(root, hidden, ctx.OutputBasename))
			}
			if !yield(ctx, hidden) {
				return
			}
		}
	}
}

// Excluded returns the layers outside hidden whose bh:exclude-from list
// names basename.
func Excluded(root *etree.Element, hidden svg.ElementSet, basename string) svg.ElementSet {
	out := svg.ElementSet{}
	svg.Walk(root, func(layer *etree.Element) bool {
		if hidden.Has(layer) {
			return false
		}
		if slices.Contains(ExcludeFrom(layer), basename) {
			out.Add(layer)
			return false
		}
		return true
	})
	return out
}

// ExcludeFrom returns the output basenames layer is excluded from.
func ExcludeFrom(layer *etree.Element) []string {
	return strings.Fields(svg.AttrValue(layer, svg.NamespaceBarnhunt, "exclude-from"))
}
