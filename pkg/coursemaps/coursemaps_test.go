package coursemaps

import (
	"reflect"
	"slices"
	"sort"
	"testing"

	"github.com/beevik/etree"

	"github.com/barnhunt/barnhunt/pkg/layers"
	"github.com/barnhunt/barnhunt/pkg/svg"
)

func parse(t *testing.T, body string) *etree.Document {
	t.Helper()
	doc, err := svg.Parse([]byte(`<svg xmlns="http://www.w3.org/2000/svg"
		xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
		xmlns:bh="http://www.dairiki.org/schema/barnhunt">` + body + `</svg>`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return doc
}

func layer(id, label, body string) string {
	return `<g inkscape:groupmode="layer" id="` + id + `" inkscape:label="` + label + `">` + body + `</g>`
}

func detect(t *testing.T, doc *etree.Document) *layers.Classifier {
	t.Helper()
	c, err := layers.Detect(doc.Root(), nil)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	return c
}

func pathIDs(path []*etree.Element) []string {
	out := []string{}
	for _, e := range path {
		out = append(out, svg.LayerID(e))
	}
	return out
}

func setIDs(s svg.ElementSet) []string {
	out := []string{}
	for e := range s {
		out = append(out, svg.LayerID(e))
	}
	sort.Strings(out)
	return out
}

func collect(en *Enumerator, root *etree.Element) []View {
	var views []View
	for v := range en.Iterate(root) {
		views = append(views, v)
	}
	return views
}

func TestIterateNoLayers(t *testing.T) {
	doc := parse(t, `<g id="plain"><rect/></g>`)
	en := NewEnumerator(detect(t, doc), nil)
	if views := collect(en, doc.Root()); len(views) != 0 {
		t.Errorf("got %d views, want 0", len(views))
	}
}

func TestIterateNoOverlays(t *testing.T) {
	doc := parse(t, layer("a", "[h] Junk", "")+layer("b", "Plain", layer("c", "[h] Notes", "")))
	en := NewEnumerator(detect(t, doc), nil)

	views := collect(en, doc.Root())
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}
	if got := pathIDs(views[0].Path); len(got) != 0 {
		t.Errorf("path = %v, want []", got)
	}
	if got, want := setIDs(views[0].Hidden), []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("hidden = %v, want %v", got, want)
	}
}

func TestLegacySingleCourse(t *testing.T) {
	doc := parse(t, layer("ring", "Ring", "")+layer("novice", "T1 Novice", ""))
	c := detect(t, doc)
	en := NewEnumerator(c, nil)

	var contexts []Context
	for ctx := range en.Views(doc.Root()) {
		contexts = append(contexts, ctx)
	}
	if len(contexts) != 1 {
		t.Fatalf("got %d views, want 1", len(contexts))
	}
	ctx := contexts[0]
	if ctx.Course == nil || ctx.Course.Label() != "T1 Novice" {
		t.Errorf("course = %v, want T1 Novice", ctx.Course)
	}
	if ctx.Overlay != nil {
		t.Errorf("overlay = %v, want nil", ctx.Overlay)
	}
}

func TestLegacyOverlays(t *testing.T) {
	doc := parse(t, layer("ring", "Ring", "")+
		layer("master", "T1 Master",
			layer("overlays", "Overlays",
				layer("blind", "Blind 1", "")+
					layer("notes", "Build Notes", ""))))
	en := NewEnumerator(detect(t, doc), nil)

	views := collect(en, doc.Root())
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}
	want := []struct {
		path   []string
		hidden []string
	}{
		{[]string{"master", "notes"}, []string{"blind"}},
		{[]string{"master", "blind"}, []string{"notes"}},
	}
	for i, w := range want {
		if got := pathIDs(views[i].Path); !reflect.DeepEqual(got, w.path) {
			t.Errorf("view %d path = %v, want %v", i, got, w.path)
		}
		if got := setIDs(views[i].Hidden); !reflect.DeepEqual(got, w.hidden) {
			t.Errorf("view %d hidden = %v, want %v", i, got, w.hidden)
		}
	}

	c := detect(t, doc)
	ctx := NewContext(views[0].Path, c, nil)
	if ctx.Course.Label() != "T1 Master" || ctx.Overlay.Label() != "Build Notes" {
		t.Errorf("context = %v/%v, want T1 Master/Build Notes", ctx.Course, ctx.Overlay)
	}
}

const nestedDrawing = `
<g inkscape:groupmode="layer" id="junk" inkscape:label="[h] Junk">
  <g inkscape:groupmode="layer" id="junk-o" inkscape:label="[o] Ignored"/>
</g>
<g inkscape:groupmode="layer" id="c1" inkscape:label="[o] Course 1">
  <g inkscape:groupmode="layer" id="c1-notes" inkscape:label="[h] Notes"/>
  <g inkscape:groupmode="layer" id="grp" inkscape:label="Group">
    <g inkscape:groupmode="layer" id="b1" inkscape:label="[o|blinds] Blind 1">
      <g inkscape:groupmode="layer" id="b1-x" inkscape:label="[o] X"/>
      <g inkscape:groupmode="layer" id="b1-y" inkscape:label="[o] Y"/>
    </g>
    <g inkscape:groupmode="layer" id="other" inkscape:label="[o] Other"/>
  </g>
</g>
<g inkscape:groupmode="layer" id="c2" inkscape:label="[o] Course 2"/>
`

func TestIterateNested(t *testing.T) {
	doc := parse(t, nestedDrawing)
	en := NewEnumerator(detect(t, doc), nil)

	views := collect(en, doc.Root())
	want := []struct {
		path   []string
		hidden []string
	}{
		{[]string{"c2"}, []string{"c1", "junk"}},
		{[]string{"c1", "other"}, []string{"b1", "c1-notes", "c2", "junk"}},
		{[]string{"c1", "b1", "b1-y"}, []string{"b1-x", "c1-notes", "c2", "junk", "other"}},
		{[]string{"c1", "b1", "b1-x"}, []string{"b1-y", "c1-notes", "c2", "junk", "other"}},
	}
	if len(views) != len(want) {
		t.Fatalf("got %d views, want %d", len(views), len(want))
	}
	for i, w := range want {
		if got := pathIDs(views[i].Path); !reflect.DeepEqual(got, w.path) {
			t.Errorf("view %d path = %v, want %v", i, got, w.path)
		}
		if got := setIDs(views[i].Hidden); !reflect.DeepEqual(got, w.hidden) {
			t.Errorf("view %d hidden = %v, want %v", i, got, w.hidden)
		}
	}
}

func TestIterateSiblingsNeverSurviveTogether(t *testing.T) {
	doc := parse(t, nestedDrawing)
	c := detect(t, doc)
	en := NewEnumerator(c, nil)
	siblings := svg.NewElementSet()
	for _, id := range []string{"b1", "other"} {
		siblings.Add(doc.FindElement("//*[@id='" + id + "']"))
	}

	for v := range en.Iterate(doc.Root()) {
		if len(v.Path) < 2 || svg.LayerID(v.Path[0]) != "c1" {
			continue
		}
		chosen := v.Path[1]
		for s := range siblings {
			if s == chosen && v.Hidden.Has(s) {
				t.Errorf("chosen overlay %s is suppressed", svg.LayerID(s))
			}
			if s != chosen && !v.Hidden.Has(s) {
				t.Errorf("unchosen overlay %s survives next to %s", svg.LayerID(s), svg.LayerID(chosen))
			}
		}
	}
}

func TestIterateRestartable(t *testing.T) {
	doc := parse(t, nestedDrawing)
	en := NewEnumerator(detect(t, doc), nil)
	seq := en.Iterate(doc.Root())

	var first []string
	for v := range seq {
		first = append(first, pathIDs(v.Path)...)
		break
	}
	var again []string
	for v := range seq {
		again = append(again, pathIDs(v.Path)...)
		break
	}
	if !slices.Equal(first, again) || !slices.Equal(first, []string{"c2"}) {
		t.Errorf("first = %v, again = %v, want [c2]", first, again)
	}
	if n := len(collect(en, doc.Root())); n != 4 {
		t.Errorf("full enumeration after partial ones = %d views, want 4", n)
	}
}

func TestViewsOutputBasename(t *testing.T) {
	doc := parse(t, nestedDrawing)
	en := NewEnumerator(detect(t, doc), Vars{VarRandomSeed: 1})

	var got []string
	for ctx := range en.Views(doc.Root()) {
		got = append(got, ctx.OutputBasename)
		if ctx.Vars[VarRandomSeed] != 1 {
			t.Errorf("Vars = %v, want random_seed merged", ctx.Vars)
		}
	}
	if want := []string{"", "", "blinds", "blinds"}; !reflect.DeepEqual(got, want) {
		t.Errorf("output basenames = %v, want %v", got, want)
	}
}

func TestViewsExcludeFrom(t *testing.T) {
	doc := parse(t,
		layer("c1", "[o] Course", layer("b1", "[o|blinds] Blind", "")+layer("b2", "[o] Plain", ""))+
			`<g inkscape:groupmode="layer" id="hint" inkscape:label="Hint" bh:exclude-from="blinds judge"/>`)
	en := NewEnumerator(detect(t, doc), nil)

	byBasename := map[string][]string{}
	for ctx, hidden := range en.Views(doc.Root()) {
		byBasename[Describe(ctx)] = setIDs(hidden)
	}
	if got, want := byBasename["Course/Blind"], []string{"b2", "hint"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Course/Blind hidden = %v, want %v", got, want)
	}
	if got, want := byBasename["Course/Plain"], []string{"b1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Course/Plain hidden = %v, want %v", got, want)
	}
}

func TestNewContext(t *testing.T) {
	doc := parse(t, nestedDrawing)
	c := detect(t, doc)
	byID := func(id string) *etree.Element { return doc.FindElement("//*[@id='" + id + "']") }

	tests := []struct {
		name      string
		path      []string
		course    string
		overlay   string
		basename  string
		basenames []string
	}{
		{"empty", nil, "", "", "", nil},
		{"course only", []string{"c2"}, "Course 2", "", "", nil},
		{"nested", []string{"c1", "b1", "b1-x"}, "Course 1", "X", "blinds", []string{"blinds"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path []*etree.Element
			for _, id := range tt.path {
				path = append(path, byID(id))
			}
			ctx := NewContext(path, c, nil)
			if got := labelOf(ctx.Course); got != tt.course {
				t.Errorf("Course = %q, want %q", got, tt.course)
			}
			if got := labelOf(ctx.Overlay); got != tt.overlay {
				t.Errorf("Overlay = %q, want %q", got, tt.overlay)
			}
			if ctx.OutputBasename != tt.basename {
				t.Errorf("OutputBasename = %q, want %q", ctx.OutputBasename, tt.basename)
			}
			if !reflect.DeepEqual(ctx.OutputBasenames, tt.basenames) {
				t.Errorf("OutputBasenames = %v, want %v", ctx.OutputBasenames, tt.basenames)
			}
		})
	}
}

func labelOf(l *layers.Layer) string {
	if l == nil {
		return ""
	}
	return l.Label()
}

func TestElementContext(t *testing.T) {
	doc := parse(t, layer("c1", "[o] Course 1",
		layer("grp", "Group",
			layer("b1", "[o] Blind 1", `<text id="t1"><tspan id="s1">x</tspan></text>`)+
				`<text id="t2"/>`))+
		`<text id="outside"/>`)
	c := detect(t, doc)
	byID := func(id string) *etree.Element { return doc.FindElement("//*[@id='" + id + "']") }

	ctx, ok := ElementContext(byID("s1"), c, nil)
	if !ok {
		t.Fatal("s1 should be inside a layer")
	}
	if ctx.Layer.ID() != "b1" || labelOf(ctx.Course) != "Course 1" || labelOf(ctx.Overlay) != "Blind 1" {
		t.Errorf("s1 context = layer %s, course %q, overlay %q", ctx.Layer.ID(), labelOf(ctx.Course), labelOf(ctx.Overlay))
	}

	ctx, ok = ElementContext(byID("t2"), c, nil)
	if !ok || ctx.Layer.ID() != "grp" || labelOf(ctx.Course) != "Course 1" || ctx.Overlay != nil {
		t.Errorf("t2 context = %+v", ctx)
	}

	if _, ok := ElementContext(byID("outside"), c, nil); ok {
		t.Error("outside text should have no layer context")
	}
}

func TestValues(t *testing.T) {
	doc := parse(t, nestedDrawing)
	c := detect(t, doc)
	ctx := NewContext([]*etree.Element{
		doc.FindElement("//*[@id='c1']"),
		doc.FindElement("//*[@id='b1']"),
	}, c, Vars{VarSVGName: "map"})

	v := ctx.Values()
	if v[VarSVGName] != "map" {
		t.Errorf("svgname = %v, want map", v[VarSVGName])
	}
	course := v["course"].(LayerValue)
	if course.String() != "Course 1" || course["id"] != "c1" {
		t.Errorf("course = %v", course)
	}
	overlay := v["overlay"].(LayerValue)
	parent := overlay["parent"].(func() any)().(LayerValue)
	if parent.String() != "Group" {
		t.Errorf("overlay.parent = %v, want Group", parent)
	}
	if v["layer"] != nil {
		t.Errorf("layer = %v, want nil for a view context", v["layer"])
	}
	if got := len(v["overlays"].([]LayerValue)); got != 2 {
		t.Errorf("len(overlays) = %d, want 2", got)
	}
}

func TestSafePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Blind 1", "Blind_1"},
		{"a/b\\c", "a_b_c"},
		{"tab\there", "tab_here"},
		{"nbsp x", "nbsp_x"},
		{"ok-name.v2", "ok-name.v2"},
		{"\x7f", "_"},
	}
	for _, tt := range tests {
		if got := SafePath(tt.in); got != tt.want {
			t.Errorf("SafePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
