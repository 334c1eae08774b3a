package mdw

import (
	"sort"
	"strings"
)

// Preset is a named set of renderer options.
type Preset interface {
	Name() string
	Options() Options
}

type preset struct {
	name string
	opts func() Options
}

func (p preset) Name() string     { return p.name }
func (p preset) Options() Options { return p.opts() }

// NewPreset returns a Preset that always yields opts.
func NewPreset(name string, opts Options) Preset {
	return preset{name: name, opts: func() Options { return opts }}
}

func escapedOptions() Options {
	o := DefaultOptions().WithGFM()
	o.EscapeSpecialChars = true
	o.PadTables = true
	return o
}

var builtinPresets = map[string]Preset{
	"commonmark": preset{name: "commonmark", opts: DefaultOptions},
	"commonmark-lenient": preset{name: "commonmark-lenient", opts: func() Options {
		return DefaultOptions().WithLenient()
	}},
	"gfm": preset{name: "gfm", opts: func() Options {
		return DefaultOptions().WithGFM()
	}},
	"gfm-lenient": preset{name: "gfm-lenient", opts: func() Options {
		return DefaultOptions().WithGFM().WithLenient()
	}},
	"escaped": preset{name: "escaped", opts: escapedOptions},
}

// AvailablePresets returns the names of built-in presets.
func AvailablePresets() []string {
	names := make([]string, 0, len(builtinPresets))
	for name := range builtinPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetByName returns a built-in preset by name.
func PresetByName(name string) (Preset, bool) {
	if name == "" {
		return builtinPresets["commonmark"], true
	}
	normalized := strings.ToLower(strings.TrimSpace(name))
	p, ok := builtinPresets[normalized]
	return p, ok
}

// DefaultPreset returns the default built-in preset.
func DefaultPreset() Preset {
	return builtinPresets["commonmark"]
}
