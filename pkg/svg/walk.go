package svg

import (
	"iter"

	"github.com/beevik/etree"
)

// Walk visits every layer below e depth first. Siblings are visited
// last-declared first, which is top to bottom in Inkscape's stacking order.
// When fn returns false the layer's descendants are skipped for this walk.
func Walk(e *etree.Element, fn func(layer *etree.Element) bool) {
	stack := ChildLayers(e)
	for len(stack) > 0 {
		layer := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if fn(layer) {
			stack = append(stack, ChildLayers(layer)...)
		}
	}
}

// WalkLayers returns the layers below e in Walk order.
func WalkLayers(e *etree.Element) iter.Seq[*etree.Element] {
	return func(yield func(*etree.Element) bool) {
		stopped := false
		Walk(e, func(layer *etree.Element) bool {
			if stopped {
				return false
			}
			if !yield(layer) {
				stopped = true
			}
			return !stopped
		})
	}
}
