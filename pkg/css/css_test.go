package css

import (
	"reflect"
	"testing"
)

func TestParseEmpty(t *testing.T) {
	s, err := Parse("")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.String() != "" {
		t.Errorf("String() = %q, want empty", s.String())
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "display:none"},
		{"replaces all declarations", "display: inline; Display: block", "display:none"},
		{"appends after others", "text-align:center", "text-align:center;display:none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			s.Set("display", "none")
			if got := s.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGet(t *testing.T) {
	s, err := Parse("display: inline; text-align:center; Display:block")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if v, ok := s.Get("display"); !ok || v != "block" {
		t.Errorf("Get(display) = %q, %v, want %q, true", v, ok, "block")
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("Get(missing) should report absence")
	}
}

func TestDelete(t *testing.T) {
	s, err := Parse("display: inline; text-align:center; Display: block")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	s.Delete("display")
	if got := s.String(); got != "text-align:center" {
		t.Errorf("String() = %q, want %q", got, "text-align:center")
	}
}

func TestProperties(t *testing.T) {
	s, err := Parse("DISPLAY: inline; text-align:center; Display:block")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := []string{"DISPLAY", "text-align"}
	if got := s.Properties(); !reflect.DeepEqual(got, want) {
		t.Errorf("Properties() = %v, want %v", got, want)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestParseImportant(t *testing.T) {
	s, err := Parse("fill:red !important")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if v, _ := s.Get("fill"); v != "red" {
		t.Errorf("Get(fill) = %q, want %q", v, "red")
	}
	if got := s.String(); got != "fill:red !important" {
		t.Errorf("String() = %q, want %q", got, "fill:red !important")
	}
}
