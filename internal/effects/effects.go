// Package effects composes visitor feature state into the single CSS
// filter expression applied to the host page.
package effects

import (
	"strconv"
	"strings"

	"github.com/accesskit/accesskit/internal/feature"
)

// Term is one named transform inside an effect expression, serialized
// as a CSS filter function call.
type Term struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (t Term) String() string {
	return t.Name + "(" + t.Value + ")"
}

// Expression is an ordered list of transforms. The order is the
// canonical catalog order: brightness, contrast, saturate, grayscale,
// sepia, invert, hue-rotate. Filter functions do not commute, so the
// order is fixed to keep rendering reproducible.
type Expression []Term

// String serializes the expression as a CSS filter chain. An empty
// expression serializes to the empty string, not "none": emitting no
// filter at all avoids forcing a new compositing context on pages
// where every feature sits at its default.
func (e Expression) String() string {
	if len(e) == 0 {
		return ""
	}
	parts := make([]string, len(e))
	for i, t := range e {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// Empty reports whether the expression carries no transforms.
func (e Expression) Empty() bool { return len(e) == 0 }

// Compose derives the effect expression for a feature state. It is a
// pure function: equal states yield byte-identical expressions. A
// feature contributes a term only when its value departs from the
// catalog default; default-valued features are never emitted, not even
// as no-op terms.
func Compose(state feature.State) Expression {
	var expr Expression
	for _, def := range feature.All() {
		if def.Filter == "" {
			continue
		}
		v := state.Get(def.ID)
		if def.IsDefault(v) {
			continue
		}
		expr = append(expr, term(def, v))
	}
	return expr
}

func term(def feature.Definition, v feature.Value) Term {
	switch def.Kind {
	case feature.KindToggle:
		return Term{Name: def.Filter, Value: def.FilterOn}
	case feature.KindPercent:
		return Term{Name: def.Filter, Value: strconv.Itoa(v.Percent) + def.FilterUnit}
	}
	// Mode features are class-rendered; no filter-backed mode exists
	// in the catalog today.
	return Term{Name: def.Filter, Value: v.Mode}
}
