package template

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/charmbracelet/log"

	"github.com/barnhunt/barnhunt/pkg/coursemaps"
	"github.com/barnhunt/barnhunt/pkg/errors"
	"github.com/barnhunt/barnhunt/pkg/layers"
	"github.com/barnhunt/barnhunt/pkg/svg"
)

const drawing = `<svg xmlns="http://www.w3.org/2000/svg"
  xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">
  <g inkscape:groupmode="layer" id="c1" inkscape:label="[o] Course 1">
    <g inkscape:groupmode="layer" id="b1" inkscape:label="[o|blinds] Blind 1">
      <text><tspan id="t1">{{ course.label }} / {{ overlay.label }}</tspan></text>
      <text><tspan id="t2">plain text</tspan></text>
      <text><tspan id="t3">{{ layer.id }} &amp; {{ layer.parent.label }}</tspan></text>
      <text><tspan id="bad">{% if %}</tspan></text>
      <text><tspan id="r1">{{ rats()|join:"," }}</tspan></text>
    </g>
    <g inkscape:groupmode="layer" id="b2" inkscape:label="[o] Blind 2">
      <text><tspan id="r2">{{ rats()|join:"," }}</tspan></text>
    </g>
  </g>
</svg>`

func setup(t *testing.T) (*etree.Document, *layers.Classifier) {
	t.Helper()
	doc, err := svg.Parse([]byte(drawing))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	c, err := layers.Detect(doc.Root(), nil)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	return doc, c
}

func textOf(t *testing.T, doc *etree.Document, id string) string {
	t.Helper()
	e := doc.FindElement("//*[@id='" + id + "']")
	if e == nil {
		t.Fatalf("no element %q", id)
	}
	return e.Text()
}

func TestIsStringLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"plain", true},
		{"", true},
		{"a { b }", true},
		{"{{ x }}", false},
		{"{% if x %}y{% endif %}", false},
		{"{# note #}", false},
	}
	for _, tt := range tests {
		if got := IsStringLiteral(tt.in); got != tt.want {
			t.Errorf("IsStringLiteral(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		src  string
		vars map[string]any
		want string
	}{
		{"{{ a }}", map[string]any{"a": "x&y"}, "x&y"},
		{"{{ missing }}", nil, ""},
		{"{{ s|safepath }}", map[string]any{"s": "a b/c"}, "a_b_c"},
		{`{{ l|safepath|join:"/" }}`, map[string]any{"l": []string{"a b", "c"}}, "a_b/c"},
	}
	for _, tt := range tests {
		got, err := Render(tt.src, tt.vars)
		if err != nil {
			t.Errorf("Render(%q) error: %v", tt.src, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Render(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestCompileError(t *testing.T) {
	_, err := Compile("{% if %}")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeInvalidTemplate) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidTemplate)
	}
}

func TestRandomRats(t *testing.T) {
	a := RandomRats(42, 5, 1, 5, 0)
	b := RandomRats(42, 5, 1, 5, 0)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed gave %v and %v", a, b)
	}
	if len(a) != 5 {
		t.Fatalf("len = %d, want 5", len(a))
	}
	for _, n := range a {
		if n < 1 || n > 5 {
			t.Errorf("value %d out of range [1, 5]", n)
		}
	}
	skipped := RandomRats(42, 4, 1, 5, 1)
	if !reflect.DeepEqual([]int(skipped), []int(a[1:])) {
		t.Errorf("skip=1 gave %v, want %v", skipped, a[1:])
	}
	if got := (Rats{1, 2, 3}).String(); got != "1 2 3" {
		t.Errorf("String() = %q, want %q", got, "1 2 3")
	}
}

func TestRatsSeed(t *testing.T) {
	base := RatsSeed(0, "file", "layer1")
	if RatsSeed(0, "file", "layer1") != base {
		t.Error("seed is not deterministic")
	}
	if RatsSeed(1, "file", "layer1") == base || RatsSeed(0, "file", "layer2") == base {
		t.Error("seed ignores its inputs")
	}
}

func TestRatsSeedArgument(t *testing.T) {
	fixed := strings.ReplaceAll(RandomRats(ExplicitRatsSeed("course-a"), 3, 1, 5, 0).String(), " ", ",")
	perLayer := func(id string) string {
		return strings.ReplaceAll(RandomRats(RatsSeed(7, "token", id), 3, 1, 5, 0).String(), " ", ",")
	}

	tests := []struct {
		src   string
		layer string
		want  string
	}{
		{`{{ rats(3, 1, 5, 0, "course-a")|join:"," }}`, "b1", fixed},
		{`{{ rats(3, 1, 5, 0, "course-a")|join:"," }}`, "b2", fixed},
		{`{{ rats(3, 1, 5, 0)|join:"," }}`, "b1", perLayer("b1")},
		{`{{ rats(3, 1, 5, 0, nothing)|join:"," }}`, "b2", perLayer("b2")},
	}

	for _, tt := range tests {
		vars := map[string]any{
			coursemaps.VarRandomSeed: 7,
			coursemaps.VarSVGFile:    "token",
			"layer":                  coursemaps.LayerValue{"id": tt.layer},
		}
		got, err := Render(tt.src, vars)
		if err != nil {
			t.Errorf("Render(%q) error: %v", tt.src, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Render(%q) on %s = %q, want %q", tt.src, tt.layer, got, tt.want)
		}
	}

	got, err := Render(`{{ rats(20, 1, 1000, 0, false)|join:"," }}|{{ rats(20, 1, 1000, 0, false)|join:"," }}`, nil)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if a, b, _ := strings.Cut(got, "|"); a == b {
		t.Errorf("seed false repeated %q", a)
	}
}

func TestExpand(t *testing.T) {
	doc, c := setup(t)
	var buf bytes.Buffer
	x := NewExpander(log.New(&buf))

	out := x.Expand(doc, c, coursemaps.Vars{coursemaps.VarRandomSeed: 7, coursemaps.VarSVGFile: "token"})

	if got := textOf(t, out, "t1"); got != "Course 1 / Blind 1" {
		t.Errorf("t1 = %q, want %q", got, "Course 1 / Blind 1")
	}
	if got := textOf(t, out, "t2"); got != "plain text" {
		t.Errorf("t2 = %q, want unchanged", got)
	}
	if got := textOf(t, out, "t3"); got != "b1 & Course 1" {
		t.Errorf("t3 = %q, want %q", got, "b1 & Course 1")
	}
	if got := textOf(t, out, "bad"); got != "{% if %}" {
		t.Errorf("bad = %q, want text left unexpanded", got)
	}
	if !strings.Contains(buf.String(), "invalid template") {
		t.Errorf("expected logged template error, got %q", buf.String())
	}

	// The source document is untouched.
	if got := textOf(t, doc, "t1"); got != "{{ course.label }} / {{ overlay.label }}" {
		t.Errorf("source t1 = %q, want template", got)
	}

	t1 := out.FindElement("//*[@id='t1']")
	if got := svg.AttrValue(t1, svg.NamespaceBarnhunt, "content"); got != "{{ course.label }} / {{ overlay.label }}" {
		t.Errorf("bh:content = %q", got)
	}
	if _, ok := svg.Attr(out.FindElement("//*[@id='t2']"), svg.NamespaceBarnhunt, "content"); ok {
		t.Error("literal text should not get bh:content")
	}
}

func TestExpandIsRepeatable(t *testing.T) {
	doc, c := setup(t)
	x := NewExpander(log.New(&bytes.Buffer{}))
	vars := coursemaps.Vars{coursemaps.VarRandomSeed: 7, coursemaps.VarSVGFile: "token"}

	once := x.Expand(doc, c, vars)
	twice := x.Expand(once, c, vars)

	for _, id := range []string{"t1", "t3", "r1", "r2"} {
		if a, b := textOf(t, once, id), textOf(t, twice, id); a != b {
			t.Errorf("%s: first %q, second %q", id, a, b)
		}
	}
}

func TestExpandRatsPerLayer(t *testing.T) {
	doc, c := setup(t)
	x := NewExpander(log.New(&bytes.Buffer{}))

	out := x.Expand(doc, c, coursemaps.Vars{coursemaps.VarRandomSeed: 7, coursemaps.VarSVGFile: "token"})

	r1 := textOf(t, out, "r1")
	want := RandomRats(RatsSeed(7, "token", "b1"), 5, 1, 5, 0)
	if r1 != strings.ReplaceAll(want.String(), " ", ",") {
		t.Errorf("r1 = %q, want %v", r1, want)
	}
	if got := strings.Count(r1, ","); got != 4 {
		t.Errorf("r1 = %q, want 5 numbers", r1)
	}
}

func TestNamer(t *testing.T) {
	doc, c := setup(t)
	byID := func(id string) *etree.Element { return doc.FindElement("//*[@id='" + id + "']") }

	n, err := NewNamer("")
	if err != nil {
		t.Fatalf("NewNamer error: %v", err)
	}

	tests := []struct {
		name string
		path []string
		want string
	}{
		{"explicit basename wins", []string{"c1", "b1"}, "blinds"},
		{"default template", []string{"c1", "b2"}, "Course_1/Blind_2"},
		{"no overlays falls back to file", nil, "drawing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path []*etree.Element
			for _, id := range tt.path {
				path = append(path, byID(id))
			}
			ctx := coursemaps.NewContext(path, c, coursemaps.Vars{coursemaps.VarSVGName: "drawing"})
			got, err := n.Basename(ctx)
			if err != nil {
				t.Fatalf("Basename error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Basename = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNamerCustomTemplate(t *testing.T) {
	doc, c := setup(t)
	n, err := NewNamer(`{{ svgname }}-{{ course.label|safepath }}{% if overlay %}-{{ overlay.label|safepath }}{% endif %}`)
	if err != nil {
		t.Fatalf("NewNamer error: %v", err)
	}
	ctx := coursemaps.NewContext([]*etree.Element{doc.FindElement("//*[@id='c1']")}, c, coursemaps.Vars{coursemaps.VarSVGName: "map"})
	got, err := n.Basename(ctx)
	if err != nil {
		t.Fatalf("Basename error: %v", err)
	}
	if got != "map-Course_1" {
		t.Errorf("Basename = %q, want %q", got, "map-Course_1")
	}

	bad, err := NewNamer(`../{{ course.label }}`)
	if err != nil {
		t.Fatalf("NewNamer error: %v", err)
	}
	if _, err := bad.Basename(ctx); err == nil {
		t.Error("expected error for basename escaping the output directory")
	}
}
