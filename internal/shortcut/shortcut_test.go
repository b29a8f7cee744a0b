package shortcut

import (
	"testing"

	"github.com/accesskit/accesskit/internal/feature"
	"github.com/accesskit/accesskit/internal/overlay"
)

func TestEscapeClosesTopmostWhenOverlayOpen(t *testing.T) {
	h := NewHandler()
	act, handled := h.Handle(KeyEvent{Key: "Escape"}, true)
	if !handled {
		t.Fatal("escape with an overlay open must be consumed")
	}
	if act.Kind != KindCloseTopmost {
		t.Errorf("kind = %s, want close-topmost", act.Kind)
	}
}

func TestEscapePassesThroughWhenNothingOpen(t *testing.T) {
	h := NewHandler()
	if _, handled := h.Handle(KeyEvent{Key: "Escape"}, false); handled {
		t.Error("escape with nothing open belongs to the host page")
	}
}

func TestEscapeIgnoresAltAndCase(t *testing.T) {
	h := NewHandler()
	for _, key := range []string{"escape", "ESCAPE", "Escape"} {
		act, handled := h.Handle(KeyEvent{Key: key, Alt: true}, true)
		if !handled || act.Kind != KindCloseTopmost {
			t.Errorf("key %q: handled=%v kind=%s", key, handled, act.Kind)
		}
	}
}

func TestPlainKeysPassThrough(t *testing.T) {
	h := NewHandler()
	for _, key := range []string{"a", "k", "m", "g", "c", "i", "o", "tab"} {
		if _, handled := h.Handle(KeyEvent{Key: key}, false); handled {
			t.Errorf("unmodified %q must reach the host page", key)
		}
	}
}

func TestSurfaceBindings(t *testing.T) {
	h := NewHandler()
	cases := []struct {
		key     string
		surface overlay.SurfaceID
	}{
		{"a", overlay.Panel},
		{"k", overlay.ShortcutGuide},
		{"m", overlay.StructureMap},
		{"g", overlay.ReadingGuide},
	}
	for _, tc := range cases {
		act, handled := h.Handle(KeyEvent{Key: tc.key, Alt: true}, false)
		if !handled {
			t.Errorf("alt+%s not handled", tc.key)
			continue
		}
		if act.Kind != KindToggleSurface || act.Surface != tc.surface {
			t.Errorf("alt+%s = %+v, want toggle %s", tc.key, act, tc.surface)
		}
	}
}

func TestFeatureBindings(t *testing.T) {
	h := NewHandler()
	cases := []struct {
		key string
		id  feature.ID
	}{
		{"c", feature.HighContrast},
		{"i", feature.InvertColors},
		{"o", feature.Monochrome},
	}
	for _, tc := range cases {
		act, handled := h.Handle(KeyEvent{Key: tc.key, Alt: true}, false)
		if !handled {
			t.Errorf("alt+%s not handled", tc.key)
			continue
		}
		if act.Kind != KindToggleFeature || act.Feature != tc.id {
			t.Errorf("alt+%s = %+v, want toggle %s", tc.key, act, tc.id)
		}
	}
}

func TestBindingsCaseInsensitive(t *testing.T) {
	h := NewHandler()
	act, handled := h.Handle(KeyEvent{Key: "A", Alt: true}, false)
	if !handled || act.Surface != overlay.Panel {
		t.Errorf("alt+A = %+v handled=%v, want panel toggle", act, handled)
	}
}

func TestCycleFocus(t *testing.T) {
	h := NewHandler()
	act, handled := h.Handle(KeyEvent{Key: "Tab", Alt: true}, false)
	if !handled || act.Kind != KindCycleFocus {
		t.Fatalf("alt+tab = %+v handled=%v, want cycle-focus", act, handled)
	}
}

func TestCycleFocusYieldsToEditableTarget(t *testing.T) {
	h := NewHandler()
	if _, handled := h.Handle(KeyEvent{Key: "Tab", Alt: true, EditableTarget: true}, false); handled {
		t.Error("alt+tab inside an editable field must keep its native meaning")
	}
}

func TestFeatureBindingsFireInsideEditableTarget(t *testing.T) {
	h := NewHandler()
	act, handled := h.Handle(KeyEvent{Key: "c", Alt: true, EditableTarget: true}, false)
	if !handled || act.Kind != KindToggleFeature {
		t.Error("feature combos fire regardless of focus")
	}
}

func TestUnboundAltKeyPassesThrough(t *testing.T) {
	h := NewHandler()
	if _, handled := h.Handle(KeyEvent{Key: "z", Alt: true}, false); handled {
		t.Error("alt+z is not reserved")
	}
}

func TestBindingsListMatchesTable(t *testing.T) {
	h := NewHandler()
	got := h.Bindings()
	if len(got) != len(bindings) {
		t.Fatalf("Bindings() returned %d entries, want %d", len(got), len(bindings))
	}
	for i, b := range bindings {
		if got[i] != b.action {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], b.action)
		}
	}
}
