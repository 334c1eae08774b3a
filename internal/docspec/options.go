package docspec

import (
	"gopkg.in/yaml.v3"

	"pkt.systems/mdw"
)

var optionKeys = []string{
	"preset", "strict", "lenient", "gfm", "escape", "hard_break_spaces",
	"pad_tables", "strict_tables", "collect_refs", "preserve_refs",
	"trim_hard_breaks", "list_marker", "ordered_delimiter", "emphasis",
	"strong", "fence", "thematic_break", "indent", "min_fence", "validate_utf8",
}

func decodeOptions(n *yaml.Node, spec *Spec) error {
	f, err := fields(n, optionKeys...)
	if err != nil {
		return err
	}
	if v, ok := f["preset"]; ok {
		name, err := str(v)
		if err != nil {
			return err
		}
		p, ok := mdw.PresetByName(name)
		if !ok {
			return errorf(v, "unknown preset %q", name)
		}
		spec.Preset = p.Name()
		spec.Options = p.Options()
	}
	o := &spec.Options
	// Walk in document order so later keys refine earlier ones.
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, v := n.Content[i].Value, n.Content[i+1]
		switch key {
		case "preset":
		case "gfm":
			on, err := boolean(v)
			if err != nil {
				return err
			}
			if on {
				*o = o.WithGFM()
			} else {
				o.GFM.Enabled = false
			}
		case "lenient":
			on, err := boolean(v)
			if err != nil {
				return err
			}
			if on {
				*o = o.WithLenient()
			} else {
				o.Strict, o.StrictTables = true, true
			}
		case "list_marker", "ordered_delimiter", "emphasis", "strong", "fence", "thematic_break":
			c, err := char(v)
			if err != nil {
				return err
			}
			*charOption(o, key) = c
		case "indent", "min_fence":
			iv, err := integer(v)
			if err != nil {
				return err
			}
			if key == "indent" {
				o.IndentSpaces = iv
			} else {
				o.MinFenceLength = iv
			}
		default:
			on, err := boolean(v)
			if err != nil {
				return err
			}
			*boolOption(o, key) = on
		}
	}
	if err := o.Validate(); err != nil {
		return errorf(n, "%v", err)
	}
	return nil
}

func charOption(o *mdw.Options, key string) *byte {
	switch key {
	case "list_marker":
		return &o.ListMarker
	case "ordered_delimiter":
		return &o.OrderedListDelimiter
	case "emphasis":
		return &o.EmphasisChar
	case "strong":
		return &o.StrongChar
	case "fence":
		return &o.FenceChar
	default:
		return &o.ThematicBreakChar
	}
}

func boolOption(o *mdw.Options, key string) *bool {
	switch key {
	case "strict":
		return &o.Strict
	case "escape":
		return &o.EscapeSpecialChars
	case "hard_break_spaces":
		return &o.HardBreakSpaces
	case "pad_tables":
		return &o.PadTables
	case "strict_tables":
		return &o.StrictTables
	case "collect_refs":
		return &o.CollectLinkReferenceDefinitions
	case "preserve_refs":
		return &o.PreserveLinkReferenceDefinitions
	case "trim_hard_breaks":
		return &o.TrimParagraphTrailingHardBreaks
	default:
		return &o.ValidateUTF8
	}
}
