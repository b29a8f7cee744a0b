// Package feature declares the accessibility feature catalog and the
// visitor state model built on top of it. Every feature has exactly one
// canonical default; a state that carries no entry for a feature is
// indistinguishable from one that carries the default explicitly.
package feature

// Kind describes how a feature's value is typed.
type Kind string

const (
	// KindToggle is a plain on/off feature.
	KindToggle Kind = "toggle"
	// KindPercent is a bounded numeric feature (brightness, font scale).
	KindPercent Kind = "percent"
	// KindMode is an enumerated feature (cursor style, text alignment).
	KindMode Kind = "mode"
)

// ID identifies a feature in the catalog.
type ID string

// Value is the current setting of a feature. Exactly one field is
// meaningful, determined by the owning Definition's Kind; the zero
// fields of the other kinds are ignored.
type Value struct {
	On      bool   `json:"on,omitempty"`
	Percent int    `json:"percent,omitempty"`
	Mode    string `json:"mode,omitempty"`
}

// Toggle returns a toggle value.
func Toggle(on bool) Value { return Value{On: on} }

// Percent returns a percent value.
func Percent(p int) Value { return Value{Percent: p} }

// Mode returns a mode value.
func Mode(m string) Value { return Value{Mode: m} }

// Definition declares one feature: its kind, canonical default and the
// shape of its effect on the host page.
type Definition struct {
	ID      ID
	Kind    Kind
	Default Value

	// Percent bounds. Out-of-range writes clamp to the nearest bound.
	Min, Max int

	// Modes lists the allowed values for KindMode features. Unknown
	// modes normalize to the default mode.
	Modes []string

	// Filter names the CSS filter function this feature contributes to
	// the composed effect expression. Empty for features rendered
	// through classes instead of filters.
	Filter string
	// FilterUnit is appended to percent values inside the filter term.
	FilterUnit string
	// FilterOn is the fixed argument emitted when a filter-backed
	// toggle is on.
	FilterOn string

	// Class is the stylesheet class applied to the document root when
	// the feature departs from its default. Mode features append the
	// mode value ("ak-cursor-big-white").
	Class string
}

// Normalize validates v against the definition and returns the value
// that will actually be stored. Percents clamp, unknown modes fall back
// to the default mode, and toggles keep only their boolean.
func (d Definition) Normalize(v Value) Value {
	switch d.Kind {
	case KindToggle:
		return Value{On: v.On}
	case KindPercent:
		p := v.Percent
		if p < d.Min {
			p = d.Min
		}
		if p > d.Max {
			p = d.Max
		}
		return Value{Percent: p}
	case KindMode:
		for _, m := range d.Modes {
			if m == v.Mode {
				return Value{Mode: v.Mode}
			}
		}
		return d.Default
	}
	return d.Default
}

// IsDefault reports whether v equals the feature's canonical default.
func (d Definition) IsDefault(v Value) bool {
	return d.Normalize(v) == d.Default
}

// State maps feature IDs to explicitly set values. Absent entries mean
// "use the default"; State never stores a value equal to the default,
// so an all-default state is the empty map.
type State map[ID]Value

// Get returns the effective value of a feature: the stored value if one
// exists, the catalog default otherwise. Unknown IDs yield a zero Value.
func (s State) Get(id ID) Value {
	if v, ok := s[id]; ok {
		return v
	}
	if def, ok := Lookup(id); ok {
		return def.Default
	}
	return Value{}
}

// Set normalizes v against the catalog and stores it. Setting a feature
// back to its default removes the entry, preserving the absence-equals-
// default invariant. Unknown IDs are ignored.
func (s State) Set(id ID, v Value) {
	def, ok := Lookup(id)
	if !ok {
		return
	}
	nv := def.Normalize(v)
	if nv == def.Default {
		delete(s, id)
		return
	}
	s[id] = nv
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	c := make(State, len(s))
	for id, v := range s {
		c[id] = v
	}
	return c
}
