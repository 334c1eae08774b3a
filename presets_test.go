package mdw

import "testing"

func TestPresetByName(t *testing.T) {
	expected := []string{
		"commonmark",
		"commonmark-lenient",
		"gfm",
		"gfm-lenient",
		"escaped",
	}
	for _, name := range expected {
		p, ok := PresetByName(name)
		if !ok {
			t.Fatalf("expected preset %q to be available", name)
		}
		if p.Name() != name {
			t.Fatalf("preset %q reports name %q", name, p.Name())
		}
		if err := p.Options().Validate(); err != nil {
			t.Fatalf("preset %q options invalid: %v", name, err)
		}
	}

	available := AvailablePresets()
	if len(available) != len(expected) {
		t.Fatalf("expected %d presets, got %v", len(expected), available)
	}
	for i := 1; i < len(available); i++ {
		if available[i-1] > available[i] {
			t.Fatalf("presets not sorted: %v", available)
		}
	}
}

func TestPresetByNameNormalizes(t *testing.T) {
	p, ok := PresetByName("  GFM ")
	if !ok || p.Name() != "gfm" {
		t.Fatalf("expected gfm preset, got %v %v", p, ok)
	}
	if !p.Options().GFM.Enabled {
		t.Fatalf("gfm preset should enable gfm")
	}
	if p, ok := PresetByName(""); !ok || p.Name() != DefaultPreset().Name() {
		t.Fatalf("empty name should return the default preset")
	}
	if _, ok := PresetByName("nope"); ok {
		t.Fatalf("unknown preset should not resolve")
	}
}

func TestPresetOptionsAreIndependent(t *testing.T) {
	p, _ := PresetByName("gfm")
	a := p.Options()
	a.GFM.DisallowedHTMLTags[0] = "changed"
	b := p.Options()
	if b.GFM.DisallowedHTMLTags[0] == "changed" {
		t.Fatalf("preset options share state between calls")
	}
	lenient, _ := PresetByName("gfm-lenient")
	if lenient.Options().Strict || lenient.Options().StrictTables {
		t.Fatalf("lenient preset should disable strict modes")
	}
}
