// Package svg provides the Inkscape SVG document helpers used by barnhunt:
// namespace-aware attribute access on github.com/beevik/etree elements,
// layer discovery and traversal, and materialization of pruned copies.
package svg

import (
	"fmt"
	"maps"
	"slices"

	"github.com/beevik/etree"
)

// XML namespaces used in Inkscape drawings.
const (
	NamespaceSVG      = "http://www.w3.org/2000/svg"
	NamespaceInkscape = "http://www.inkscape.org/namespaces/inkscape"
	NamespaceSodipodi = "http://sodipodi.sourceforge.net/DTD/sodipodi-0.dtd"
	NamespaceXLink    = "http://www.w3.org/1999/xlink"
	NamespaceXML      = "http://www.w3.org/XML/1998/namespace"
	NamespaceBarnhunt = "http://www.dairiki.org/schema/barnhunt"
)

// DefaultPrefixes maps namespaces to the prefixes used when a namespace has
// to be declared.
var DefaultPrefixes = map[string]string{
	NamespaceSVG:      "svg",
	NamespaceInkscape: "inkscape",
	NamespaceSodipodi: "sodipodi",
	NamespaceXLink:    "xlink",
	NamespaceBarnhunt: "bh",
}

// LookupNamespace resolves prefix to a namespace URI in the scope of e.
// The empty prefix resolves the default namespace.
func LookupNamespace(e *etree.Element, prefix string) string {
	if prefix == "xml" {
		return NamespaceXML
	}
	for ; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if prefix == "" && a.Space == "" && a.Key == "xmlns" {
				return a.Value
			}
			if prefix != "" && a.Space == "xmlns" && a.Key == prefix {
				return a.Value
			}
		}
	}
	return ""
}

// LookupPrefix returns a prefix bound to namespace uri in the scope of e.
func LookupPrefix(e *etree.Element, uri string) (string, bool) {
	if uri == NamespaceXML {
		return "xml", true
	}
	for scope := e; scope != nil; scope = scope.Parent() {
		for _, a := range scope.Attr {
			if a.Space == "xmlns" && a.Value == uri && LookupNamespace(e, a.Key) == uri {
				return a.Key, true
			}
		}
	}
	return "", false
}

// ElementNamespace returns the namespace URI of e.
func ElementNamespace(e *etree.Element) string {
	return LookupNamespace(e, e.Space)
}

// IsElement reports whether e is the element {uri}local.
func IsElement(e *etree.Element, uri, local string) bool {
	return e != nil && e.Tag == local && ElementNamespace(e) == uri
}

// Attr returns the value of attribute {uri}local. Pass an empty uri for
// unprefixed attributes.
func Attr(e *etree.Element, uri, local string) (string, bool) {
	if a := findAttr(e, uri, local); a != nil {
		return a.Value, true
	}
	return "", false
}

// AttrValue returns the value of attribute {uri}local, or "" when absent.
func AttrValue(e *etree.Element, uri, local string) string {
	v, _ := Attr(e, uri, local)
	return v
}

// SetAttr sets attribute {uri}local. When uri has no prefix in scope, it is
// declared on the outermost ancestor of e.
func SetAttr(e *etree.Element, uri, local, value string) {
	if a := findAttr(e, uri, local); a != nil {
		a.Value = value
		return
	}
	if uri == "" {
		e.CreateAttr(local, value)
		return
	}
	prefix, ok := LookupPrefix(e, uri)
	if !ok {
		prefix = declare(topmost(e), uri, DefaultPrefixes[uri])
	}
	e.CreateAttr(prefix+":"+local, value)
}

// RemoveAttr removes attribute {uri}local, reporting whether it was present.
func RemoveAttr(e *etree.Element, uri, local string) bool {
	for i := range e.Attr {
		if attrMatches(e, &e.Attr[i], uri, local) {
			e.Attr = append(e.Attr[:i], e.Attr[i+1:]...)
			return true
		}
	}
	return false
}

// DeclareNamespaces adds xmlns declarations for nsmap (prefix to URI) to
// root. Existing declarations are never removed; a prefix already bound
// to a different URI is left alone. Declarations are added in prefix
// order so that output is stable.
func DeclareNamespaces(root *etree.Element, nsmap map[string]string) {
	for _, prefix := range slices.Sorted(maps.Keys(nsmap)) {
		uri := nsmap[prefix]
		if _, ok := LookupPrefix(root, uri); ok {
			continue
		}
		declare(root, uri, prefix)
	}
}

func declare(root *etree.Element, uri, prefix string) string {
	if prefix == "" {
		prefix = "ns0"
	}
	candidate := prefix
	for i := 1; LookupNamespace(root, candidate) != ""; i++ {
		candidate = fmt.Sprintf("%s%d", prefix, i)
	}
	root.CreateAttr("xmlns:"+candidate, uri)
	return candidate
}

func findAttr(e *etree.Element, uri, local string) *etree.Attr {
	for i := range e.Attr {
		if attrMatches(e, &e.Attr[i], uri, local) {
			return &e.Attr[i]
		}
	}
	return nil
}

func attrMatches(e *etree.Element, a *etree.Attr, uri, local string) bool {
	if a.Key != local || a.Space == "xmlns" || (a.Space == "" && a.Key == "xmlns") {
		return false
	}
	if a.Space == "" {
		return uri == ""
	}
	return LookupNamespace(e, a.Space) == uri
}

func topmost(e *etree.Element) *etree.Element {
	for {
		p := e.Parent()
		if p == nil || p.Tag == "" {
			return e
		}
		e = p
	}
}

