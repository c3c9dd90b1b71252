package svg

import (
	"reflect"
	"testing"

	"github.com/beevik/etree"
)

func layerIDs(doc *etree.Document) []string {
	var out []string
	for layer := range WalkLayers(doc.Root()) {
		out = append(out, LayerID(layer))
	}
	return out
}

func TestMaterializeEmptySet(t *testing.T) {
	doc := mustParse(t, testDrawing)
	before, _ := Bytes(doc)

	out := Materialize(doc, nil, nil)

	if after, _ := Bytes(doc); string(after) != string(before) {
		t.Error("Materialize modified its input")
	}
	if got, want := layerIDs(out), layerIDs(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("layers = %v, want %v", got, want)
	}
	if got := AttrValue(byID(t, out, "a"), "", "style"); got != "display:inline" {
		t.Errorf("style(a) = %q, want display:inline", got)
	}
	if got := AttrValue(byID(t, out, "c"), "", "style"); got != "fill:red;display:inline" {
		t.Errorf("style(c) = %q, want fill:red;display:inline", got)
	}
	if got := out.FindElement("//text").Text(); got != "hello" {
		t.Errorf("text = %q, want hello", got)
	}

	// Apart from layer visibility the copy is identical.
	for layer := range WalkLayers(out.Root()) {
		RemoveAttr(layer, "", "style")
	}
	for layer := range WalkLayers(doc.Root()) {
		RemoveAttr(layer, "", "style")
	}
	a, _ := Bytes(doc)
	b, _ := Bytes(out)
	if string(a) != string(b) {
		t.Errorf("copy differs from source:\n%s\n---\n%s", a, b)
	}
}

func TestMaterializeSuppresses(t *testing.T) {
	doc := mustParse(t, testDrawing)
	hidden := NewElementSet(byID(t, doc, "a"), byID(t, doc, "b"))

	out := Materialize(doc, hidden, nil)

	if got, want := layerIDs(out), []string{"c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("layers = %v, want %v", got, want)
	}
	if out.FindElement("//text") != nil {
		t.Error("descendant of suppressed layer survived")
	}
	if byID(t, out, "plain") == nil {
		t.Error("non-layer group lost")
	}
	if got, want := layerIDs(doc), []string{"c", "b", "a", "a2", "a1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("source layers = %v, want %v", got, want)
	}
}

func TestMaterializeRescan(t *testing.T) {
	doc := mustParse(t, testDrawing)
	hidden := NewElementSet(byID(t, doc, "a2"))

	out := Materialize(doc, hidden, nil)

	var want []string
	for layer := range WalkLayers(doc.Root()) {
		if !hidden.Covers(layer) {
			want = append(want, LayerID(layer))
		}
	}
	if got := layerIDs(out); !reflect.DeepEqual(got, want) {
		t.Errorf("layers = %v, want %v", got, want)
	}
}

func TestMaterializeNamespaces(t *testing.T) {
	doc := mustParse(t, testDrawing)
	out := Materialize(doc, nil, map[string]string{"bh": NamespaceBarnhunt})

	if got := LookupNamespace(out.Root(), "bh"); got != NamespaceBarnhunt {
		t.Errorf("xmlns:bh = %q, want %q", got, NamespaceBarnhunt)
	}
	if got := LookupNamespace(out.Root(), "inkscape"); got != NamespaceInkscape {
		t.Errorf("xmlns:inkscape = %q, want %q", got, NamespaceInkscape)
	}
	if LookupNamespace(doc.Root(), "bh") != "" {
		t.Error("namespace declared on the source document")
	}
}

func TestEnsureVisible(t *testing.T) {
	tests := []struct {
		style string
		want  string
	}{
		{"display:none", "display:inline"},
		{"display: none; opacity:0.5", "opacity:0.5;display:inline"},
		{"display:block", "display:block"},
		{"fill:blue", "fill:blue"},
	}
	for _, tt := range tests {
		e := etree.NewElement("g")
		e.CreateAttr("style", tt.style)
		EnsureVisible(e)
		if got := AttrValue(e, "", "style"); got != tt.want {
			t.Errorf("EnsureVisible(%q) = %q, want %q", tt.style, got, tt.want)
		}
	}

	e := etree.NewElement("g")
	EnsureVisible(e)
	if _, ok := Attr(e, "", "style"); ok {
		t.Error("EnsureVisible added a style attribute")
	}
}
