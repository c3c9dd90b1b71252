package svg

import "github.com/beevik/etree"

// IsLayer reports whether e is an Inkscape layer: an svg:g element whose
// inkscape:groupmode is "layer".
func IsLayer(e *etree.Element) bool {
	return IsElement(e, NamespaceSVG, "g") && AttrValue(e, NamespaceInkscape, "groupmode") == "layer"
}

// LayerID returns the id attribute of e.
func LayerID(e *etree.Element) string {
	return AttrValue(e, "", "id")
}

// LayerLabel returns the raw inkscape:label of e, or "" when unlabeled.
func LayerLabel(e *etree.Element) string {
	return AttrValue(e, NamespaceInkscape, "label")
}

// ParentLayer returns the nearest layer strictly enclosing e, or nil.
func ParentLayer(e *etree.Element) *etree.Element {
	for p := e.Parent(); p != nil; p = p.Parent() {
		if IsLayer(p) {
			return p
		}
	}
	return nil
}

// EnclosingLayer returns e itself when it is a layer, otherwise its
// nearest enclosing layer.
func EnclosingLayer(e *etree.Element) *etree.Element {
	if IsLayer(e) {
		return e
	}
	return ParentLayer(e)
}

// Lineage returns the layers from e (included when it is a layer) up to the
// outermost layer, innermost first.
func Lineage(e *etree.Element) []*etree.Element {
	var out []*etree.Element
	for l := EnclosingLayer(e); l != nil; l = ParentLayer(l) {
		out = append(out, l)
	}
	return out
}

// ChildLayers returns the layers directly below e in document order.
// Layers wrapped in plain (non-layer) groups count as children too.
func ChildLayers(e *etree.Element) []*etree.Element {
	var out []*etree.Element
	var collect func(*etree.Element)
	collect = func(parent *etree.Element) {
		for _, c := range parent.ChildElements() {
			switch {
			case IsLayer(c):
				out = append(out, c)
			case IsElement(c, NamespaceSVG, "g"), IsElement(c, NamespaceSVG, "svg"):
				collect(c)
			}
		}
	}
	collect(e)
	return out
}
