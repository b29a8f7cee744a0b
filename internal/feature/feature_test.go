package feature

import "testing"

func TestLookupKnownFeatures(t *testing.T) {
	for _, id := range []ID{Brightness, HighContrast, Cursor, FontScale} {
		if _, ok := Lookup(id); !ok {
			t.Errorf("Lookup(%q) not found", id)
		}
	}
	if _, ok := Lookup("no-such-feature"); ok {
		t.Error("Lookup of unknown feature should fail")
	}
}

func TestCatalogDefaults(t *testing.T) {
	// Every definition's default must normalize to itself, otherwise
	// "absence equals default" cannot hold.
	for _, def := range All() {
		if got := def.Normalize(def.Default); got != def.Default {
			t.Errorf("%s: Normalize(default) = %+v, want %+v", def.ID, got, def.Default)
		}
		if !def.IsDefault(def.Default) {
			t.Errorf("%s: IsDefault(default) = false", def.ID)
		}
	}
}

func TestNormalizeClampsPercent(t *testing.T) {
	def, _ := Lookup(Brightness)

	tests := []struct {
		in   int
		want int
	}{
		{30, 50},   // below min
		{50, 50},   // at min
		{150, 150}, // in range
		{200, 200}, // at max
		{500, 200}, // above max
	}
	for _, tt := range tests {
		got := def.Normalize(Percent(tt.in))
		if got.Percent != tt.want {
			t.Errorf("Normalize(%d) = %d, want %d", tt.in, got.Percent, tt.want)
		}
	}
}

func TestNormalizeUnknownMode(t *testing.T) {
	def, _ := Lookup(Cursor)

	if got := def.Normalize(Mode("big-white")); got.Mode != "big-white" {
		t.Errorf("known mode: got %q", got.Mode)
	}
	if got := def.Normalize(Mode("sparkly")); got != def.Default {
		t.Errorf("unknown mode should fall back to default, got %+v", got)
	}
}

func TestStateGetUnsetReturnsDefault(t *testing.T) {
	s := State{}
	if got := s.Get(Brightness); got.Percent != 100 {
		t.Errorf("unset brightness = %d, want 100", got.Percent)
	}
	if got := s.Get(Monochrome); got.On {
		t.Error("unset monochrome should be off")
	}
}

func TestStateSetDefaultRemovesEntry(t *testing.T) {
	s := State{}
	s.Set(Brightness, Percent(150))
	if len(s) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(s))
	}

	// Setting back to default must remove the entry, not store an
	// explicit neutral value.
	s.Set(Brightness, Percent(100))
	if len(s) != 0 {
		t.Errorf("expected empty state after reset to default, got %d entries", len(s))
	}
}

func TestStateSetClamps(t *testing.T) {
	s := State{}
	s.Set(Brightness, Percent(9000))
	if got := s.Get(Brightness); got.Percent != 200 {
		t.Errorf("stored brightness = %d, want clamped 200", got.Percent)
	}

	s.Set(Brightness, Percent(-5))
	if got := s.Get(Brightness); got.Percent != 50 {
		t.Errorf("stored brightness = %d, want clamped 50", got.Percent)
	}
}

func TestStateSetUnknownIgnored(t *testing.T) {
	s := State{}
	s.Set("no-such-feature", Toggle(true))
	if len(s) != 0 {
		t.Errorf("unknown feature should not be stored, got %d entries", len(s))
	}
}

func TestStateClone(t *testing.T) {
	s := State{}
	s.Set(Monochrome, Toggle(true))

	c := s.Clone()
	c.Set(Monochrome, Toggle(false))

	if !s.Get(Monochrome).On {
		t.Error("mutating clone affected original")
	}
}
