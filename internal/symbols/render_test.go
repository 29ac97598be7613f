package symbols

import (
	"go/parser"
	"reflect"
	"testing"
)

func TestRenderExpr(t *testing.T) {
	tests := []string{
		"Gear",
		"parts.Gear",
		"*parts.Gear",
		"[]Gear",
		"[4]Gear",
		"map[string]*Gear",
		"chan Gear",
		"<-chan Gear",
		"chan<- Gear",
		"Box[Gear]",
		"Pair[Gear, Knob]",
		"interface{}",
		"func(Gear) error",
		"func(Gear, Knob) (string, error)",
	}

	for _, src := range tests {
		expr, err := parser.ParseExpr(src)
		if err != nil {
			t.Fatalf("ParseExpr(%q): %v", src, err)
		}
		if got := renderExpr(expr); got != src {
			t.Errorf("renderExpr(%q) = %q", src, got)
		}
	}
}

func TestBaseTypeNames(t *testing.T) {
	tests := []struct {
		expr     string
		expected []string
	}{
		{"Gear", []string{"Gear"}},
		{"*Gear", []string{"Gear"}},
		{"map[string]parts.Gear", []string{"string", "parts.Gear"}},
		{"chan Gear", []string{"Gear"}},
		{"Box[Gear]", []string{"Box", "Gear"}},
		{"[]*Gear", []string{"Gear"}},
	}

	for _, tt := range tests {
		if got := baseTypeNames(tt.expr); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("baseTypeNames(%q) = %v, want %v", tt.expr, got, tt.expected)
		}
	}
}
