package translator

import (
	"testing"

	"github.com/richinsley/raylab/shader"
)

func TestResolve(t *testing.T) {
	tr := NewTranslated(shader.Sources{}, map[string]string{
		"uCamera":   "_uuCamera",
		"vPosition": "_uvPosition",
		"uPlain":    "uPlain",
	})

	tests := []struct {
		name, want string
	}{
		{"vPosition", "_uvPosition"},
		{"uCamera", "_uuCamera"},
		{"uCamera.Position", "_uuCamera._uPosition"},
		{"uPlain.Field", "uPlain.Field"},
		{"uUnknown", "uUnknown"},
		{"uUnknown.Field", "uUnknown.Field"},
	}
	for _, tt := range tests {
		if got := tr.Resolve(tt.name); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNewTranslatedCopiesTable(t *testing.T) {
	table := map[string]string{"a": "_ua"}
	tr := NewTranslated(shader.Sources{}, table)
	table["a"] = "changed"
	if got := tr.Resolve("a"); got != "_ua" {
		t.Errorf("Resolve(a) = %q, want _ua", got)
	}
}
