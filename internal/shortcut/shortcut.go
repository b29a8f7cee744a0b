// Package shortcut maps keyboard input to widget actions. The handler
// decides, it does not mutate: the controller executes whatever action
// comes back, so keyboard and pointer input drive the exact same paths.
package shortcut

import (
	"strings"

	"github.com/accesskit/accesskit/internal/feature"
	"github.com/accesskit/accesskit/internal/overlay"
)

// KeyEvent is a normalized key press from the host page.
type KeyEvent struct {
	// Key is the DOM KeyboardEvent.key value ("Escape", "a", "F2").
	Key string `json:"key"`
	Alt bool   `json:"alt"`
	// EditableTarget is true when focus sits inside a host-page text
	// input, textarea or contenteditable region.
	EditableTarget bool `json:"editable_target"`
}

// Kind classifies what an action does.
type Kind string

const (
	KindToggleSurface Kind = "toggle-surface"
	KindCloseTopmost  Kind = "close-topmost"
	KindToggleFeature Kind = "toggle-feature"
	KindCycleFocus    Kind = "cycle-focus"
)

// Action is what a handled key press asks the controller to do.
type Action struct {
	Kind    Kind              `json:"kind"`
	Surface overlay.SurfaceID `json:"surface,omitempty"`
	Feature feature.ID        `json:"feature,omitempty"`
}

// binding ties one reserved key combination to an action. Every entry
// requires the Alt modifier, which is what makes the combination
// reserved: plain keys always belong to the host page.
type binding struct {
	key    string
	action Action
}

var bindings = []binding{
	{"a", Action{Kind: KindToggleSurface, Surface: overlay.Panel}},
	{"k", Action{Kind: KindToggleSurface, Surface: overlay.ShortcutGuide}},
	{"m", Action{Kind: KindToggleSurface, Surface: overlay.StructureMap}},
	{"g", Action{Kind: KindToggleSurface, Surface: overlay.ReadingGuide}},
	{"c", Action{Kind: KindToggleFeature, Feature: feature.HighContrast}},
	{"i", Action{Kind: KindToggleFeature, Feature: feature.InvertColors}},
	{"o", Action{Kind: KindToggleFeature, Feature: feature.Monochrome}},
	{"tab", Action{Kind: KindCycleFocus}},
}

// Handler resolves key events against the fixed binding table.
type Handler struct{}

// NewHandler returns a handler over the default bindings.
func NewHandler() *Handler { return &Handler{} }

// Handle maps ev to an action. The boolean result reports whether the
// widget consumed the event; when false the host page's own handlers
// see it untouched.
//
// Escape is special-cased: with any overlay open it always resolves to
// closing the topmost surface, however that surface was opened. With
// nothing open, Escape passes through.
func (h *Handler) Handle(ev KeyEvent, overlayOpen bool) (Action, bool) {
	if strings.EqualFold(ev.Key, "escape") {
		if overlayOpen {
			return Action{Kind: KindCloseTopmost}, true
		}
		return Action{}, false
	}

	if !ev.Alt {
		return Action{}, false
	}

	key := strings.ToLower(ev.Key)
	for _, b := range bindings {
		if b.key != key {
			continue
		}
		// Focus cycling is the one binding that is not reserved: while
		// the visitor types in a host-page field, tab must keep its
		// native meaning. Every other combo fires regardless of focus.
		if ev.EditableTarget && b.action.Kind == KindCycleFocus {
			return Action{}, false
		}
		return b.action, true
	}
	return Action{}, false
}

// Bindings returns the reserved combinations for display in the
// shortcut guide surface.
func (h *Handler) Bindings() []Action {
	out := make([]Action, len(bindings))
	for i, b := range bindings {
		out[i] = b.action
	}
	return out
}
