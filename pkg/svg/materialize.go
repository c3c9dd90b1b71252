package svg

import (
	"regexp"

	"github.com/beevik/etree"

	"github.com/barnhunt/barnhunt/pkg/css"
)

// Materialize returns a deep copy of doc without the elements in hidden
// and their descendants. Every layer left in the copy is made visible.
// Namespace declarations from nsmap are added to the copy's root element.
// doc is not modified.
func Materialize(doc *etree.Document, hidden ElementSet, nsmap map[string]string) *etree.Document {
	out := doc.Copy()
	if len(hidden) > 0 {
		prune(&doc.Element, &out.Element, hidden)
	}
	root := out.Root()
	if root == nil {
		return out
	}
	if len(nsmap) > 0 {
		DeclareNamespaces(root, nsmap)
	}
	for layer := range WalkLayers(root) {
		EnsureVisible(layer)
	}
	return out
}

// prune walks src and its copy dst in lockstep, removing from dst the
// copies of hidden elements.
func prune(src, dst *etree.Element, hidden ElementSet) {
	var drop []*etree.Element
	for i, t := range src.Child {
		se, ok := t.(*etree.Element)
		if !ok {
			continue
		}
		de := dst.Child[i].(*etree.Element)
		if hidden.Has(se) {
			drop = append(drop, de)
			continue
		}
		prune(se, de, hidden)
	}
	for _, de := range drop {
		dst.RemoveChildAt(de.Index())
	}
}

var displayNoneRe = regexp.MustCompile(`(?i)(^|;)\s*display\s*:\s*none\s*(;|$)`)

// EnsureVisible rewrites a display:none inline style on e to display:inline.
func EnsureVisible(e *etree.Element) {
	style, ok := Attr(e, "", "style")
	if !ok {
		return
	}
	parsed, err := css.Parse(style)
	if err != nil {
		// Unparseable style: patch the declaration textually.
		if displayNoneRe.MatchString(style) {
			SetAttr(e, "", "style", displayNoneRe.ReplaceAllString(style, "${1}display:inline${2}"))
		}
		return
	}
	if v, ok := parsed.Get("display"); ok && v == "none" {
		parsed.Set("display", "inline")
		SetAttr(e, "", "style", parsed.String())
	}
}
