package effects

import (
	"testing"

	"github.com/accesskit/accesskit/internal/feature"
)

func TestComposeAllDefaultsIsEmpty(t *testing.T) {
	// Regression: an all-default state once rendered a chain of no-op
	// terms that washed out page colors. Defaults must produce
	// no terms at all, not neutral no-op terms.
	expr := Compose(feature.State{})
	if !expr.Empty() {
		t.Fatalf("expected empty expression for default state, got %q", expr.String())
	}
	if expr.String() != "" {
		t.Errorf("empty expression must serialize to \"\", got %q", expr.String())
	}
}

func TestComposeSingleTerm(t *testing.T) {
	s := feature.State{}
	s.Set(feature.Brightness, feature.Percent(150))

	expr := Compose(s)
	if len(expr) != 1 {
		t.Fatalf("expected exactly 1 term, got %d (%q)", len(expr), expr.String())
	}
	if got := expr.String(); got != "brightness(150%)" {
		t.Errorf("expression = %q, want brightness(150%%)", got)
	}
}

func TestComposeResetToDefaultEmpties(t *testing.T) {
	s := feature.State{}
	s.Set(feature.Brightness, feature.Percent(150))
	s.Set(feature.Brightness, feature.Percent(100))

	if expr := Compose(s); !expr.Empty() {
		t.Errorf("expected empty expression after reset, got %q", expr.String())
	}
}

func TestComposeCanonicalOrder(t *testing.T) {
	s := feature.State{}
	// Set in reverse of canonical order; output order must not care.
	s.Set(feature.HueRotation, feature.Percent(90))
	s.Set(feature.InvertColors, feature.Toggle(true))
	s.Set(feature.Saturation, feature.Percent(50))
	s.Set(feature.Brightness, feature.Percent(120))

	want := "brightness(120%) saturate(50%) invert(100%) hue-rotate(90deg)"
	if got := Compose(s).String(); got != want {
		t.Errorf("expression = %q, want %q", got, want)
	}
}

func TestComposeDeterministic(t *testing.T) {
	s := feature.State{}
	s.Set(feature.Contrast, feature.Percent(130))
	s.Set(feature.Monochrome, feature.Toggle(true))

	first := Compose(s).String()
	for i := 0; i < 10; i++ {
		if got := Compose(s).String(); got != first {
			t.Fatalf("compose not deterministic: %q vs %q", got, first)
		}
	}
}

func TestComposeToggleTerm(t *testing.T) {
	s := feature.State{}
	s.Set(feature.HighContrast, feature.Toggle(true))

	if got := Compose(s).String(); got != "contrast(125%)" {
		t.Errorf("high contrast expression = %q, want contrast(125%%)", got)
	}
}

func TestComposeIgnoresClassFeatures(t *testing.T) {
	s := feature.State{}
	s.Set(feature.ReadableFont, feature.Toggle(true))
	s.Set(feature.FontScale, feature.Percent(150))

	if expr := Compose(s); !expr.Empty() {
		t.Errorf("class-rendered features must not emit filter terms, got %q", expr.String())
	}
}
