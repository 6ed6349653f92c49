package selector_test

import (
	"reflect"
	"testing"

	"github.com/raysh454/sentaku/internal/selector"
)

// ─── ExtractParts ──────────────────────────────────────────────────────

func TestExtractParts_ComplexSelector(t *testing.T) {
	t.Parallel()
	parts := selector.ExtractParts("div.class-name#id[attr=value]:hover")

	if parts.Tag != "div" {
		t.Errorf("expected tag 'div', got %q", parts.Tag)
	}
	if parts.ID != "id" {
		t.Errorf("expected id 'id', got %q", parts.ID)
	}
	if !reflect.DeepEqual(parts.Classes, []string{"class-name"}) {
		t.Errorf("unexpected classes: %v", parts.Classes)
	}
	if !reflect.DeepEqual(parts.Attributes, []string{"attr=value"}) {
		t.Errorf("unexpected attributes: %v", parts.Attributes)
	}
	if !reflect.DeepEqual(parts.Pseudo, []string{"hover"}) {
		t.Errorf("unexpected pseudo: %v", parts.Pseudo)
	}
}

func TestExtractParts_NoTagWhenLeadingSymbol(t *testing.T) {
	t.Parallel()
	for _, sel := range []string{"#date", ".title", "[data-x]", ":hover"} {
		if parts := selector.ExtractParts(sel); parts.Tag != "" {
			t.Errorf("ExtractParts(%q).Tag = %q, want empty", sel, parts.Tag)
		}
	}
}

func TestExtractParts_MultipleClassesInOrder(t *testing.T) {
	t.Parallel()
	parts := selector.ExtractParts(".a.b-c.d")
	if !reflect.DeepEqual(parts.Classes, []string{"a", "b-c", "d"}) {
		t.Errorf("unexpected class order: %v", parts.Classes)
	}
}

func TestExtractParts_AttributeOperators(t *testing.T) {
	t.Parallel()
	parts := selector.ExtractParts("a[href^=http][rel~=noopener][data-v]")
	want := []string{"href^=http", "rel~=noopener", "data-v"}
	if !reflect.DeepEqual(parts.Attributes, want) {
		t.Errorf("unexpected attributes: %v, want %v", parts.Attributes, want)
	}
}

func TestExtractParts_PseudoArgumentsDiscarded(t *testing.T) {
	t.Parallel()
	parts := selector.ExtractParts("li:nth-child(2n+1):hover")
	if !reflect.DeepEqual(parts.Pseudo, []string{"nth-child", "hover"}) {
		t.Errorf("unexpected pseudo: %v", parts.Pseudo)
	}
}

// ─── ComputeSpecificity ────────────────────────────────────────────────

func TestComputeSpecificity(t *testing.T) {
	t.Parallel()
	cases := []struct {
		sel  string
		want selector.Specificity
	}{
		{"div", selector.Specificity{0, 0, 1}},
		{"div.class", selector.Specificity{0, 1, 1}},
		{"div#id", selector.Specificity{1, 0, 1}},
		{"div.class1.class2", selector.Specificity{0, 2, 1}},
		{"div#id.class[attr]:hover", selector.Specificity{1, 3, 1}},
		{"#a #b", selector.Specificity{2, 0, 0}},
	}

	for _, c := range cases {
		if got := selector.ComputeSpecificity(c.sel); got != c.want {
			t.Errorf("ComputeSpecificity(%q) = %v, want %v", c.sel, got, c.want)
		}
	}
}

func TestSpecificity_CompareLexicographic(t *testing.T) {
	t.Parallel()
	lo := selector.Specificity{0, 9, 9}
	hi := selector.Specificity{1, 0, 0}
	if lo.Compare(hi) != -1 {
		t.Error("expected id component to dominate")
	}
	if hi.Compare(lo) != 1 {
		t.Error("expected reverse comparison to be positive")
	}
	if hi.Compare(hi) != 0 {
		t.Error("expected equal scores to compare 0")
	}
}
