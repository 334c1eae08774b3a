package ext

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"pkt.systems/mdw"
)

// FrontMatterFormat is the encoding of a front matter block.
type FrontMatterFormat uint8

const (
	// FrontMatterYAML is delimited by "---".
	FrontMatterYAML FrontMatterFormat = iota
	// FrontMatterTOML is delimited by "+++".
	FrontMatterTOML
	// FrontMatterJSON is delimited by ";;;".
	FrontMatterJSON
)

func (f FrontMatterFormat) String() string {
	switch f {
	case FrontMatterYAML:
		return "yaml"
	case FrontMatterTOML:
		return "toml"
	case FrontMatterJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Delimiter returns the fence line of the format.
func (f FrontMatterFormat) Delimiter() string {
	switch f {
	case FrontMatterTOML:
		return "+++"
	case FrontMatterJSON:
		return ";;;"
	default:
		return "---"
	}
}

// ParseFrontMatterFormat maps a format name to a FrontMatterFormat.
func ParseFrontMatterFormat(name string) (FrontMatterFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "yaml", "yml":
		return FrontMatterYAML, nil
	case "toml":
		return FrontMatterTOML, nil
	case "json":
		return FrontMatterJSON, nil
	}
	return 0, fmt.Errorf("unknown front matter format %q", name)
}

// FrontMatter is a metadata block at the top of a document. It belongs
// first in the document; elsewhere its delimiters read as thematic breaks.
type FrontMatter struct {
	Format FrontMatterFormat
	Data   map[string]any
}

// NewFrontMatter wraps a front matter block as a node.
func NewFrontMatter(format FrontMatterFormat, data map[string]any) *mdw.Custom {
	return mdw.NewCustom(&FrontMatter{Format: format, Data: data})
}

func (f *FrontMatter) Name() string { return "frontmatter" }
func (f *FrontMatter) Block() bool  { return true }

// Encode returns the encoded body without delimiters.
func (f *FrontMatter) Encode() (string, error) {
	data := f.Data
	if data == nil {
		data = map[string]any{}
	}
	switch f.Format {
	case FrontMatterYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			_ = enc.Close()
			return "", fmt.Errorf("encode yaml front matter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode yaml front matter: %w", err)
		}
		return buf.String(), nil
	case FrontMatterTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(data); err != nil {
			return "", fmt.Errorf("encode toml front matter: %w", err)
		}
		return buf.String(), nil
	case FrontMatterJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode json front matter: %w", err)
		}
		return string(out), nil
	}
	return "", mdw.NewCodedError("frontmatter.format", fmt.Sprintf("unknown front matter format %d", f.Format))
}

func (f *FrontMatter) RenderCommonMark(r *mdw.CommonMarkRenderer) error {
	body, err := f.Encode()
	if err != nil {
		return err
	}
	if err := mdw.ValidateText(body); err != nil {
		return fmt.Errorf("front matter: %w", err)
	}
	delim := f.Format.Delimiter()
	body = strings.TrimRight(body, "\n")
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == delim {
			return mdw.NewCodedError("frontmatter.delimiter", "front matter body contains its delimiter")
		}
	}
	r.WriteString(delim + "\n")
	if body != "" {
		r.WriteString(body + "\n")
	}
	r.WriteString(delim)
	return nil
}

// SupportsHTML reports native support: front matter has no HTML form.
func (f *FrontMatter) SupportsHTML() bool { return true }

func (f *FrontMatter) RenderHTML(*mdw.HTMLRenderer) error { return nil }

func (f *FrontMatter) Equal(other mdw.Extension) bool {
	o, ok := other.(*FrontMatter)
	return ok && o.Format == f.Format && reflect.DeepEqual(o.Data, f.Data)
}

func (f *FrontMatter) Clone() mdw.Extension {
	c := &FrontMatter{Format: f.Format}
	if f.Data != nil {
		c.Data = cloneMap(f.Data)
	}
	return c
}

func cloneMap(m map[string]any) map[string]any {
	out := maps.Clone(m)
	for k, v := range out {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

// ParseFrontMatter splits a leading front matter block from src and decodes
// it. It returns a nil FrontMatter and src unchanged when src does not start
// with one.
func ParseFrontMatter(src []byte) (*FrontMatter, []byte, error) {
	openLine, openNext, ok := nextLine(src, 0)
	if !ok {
		return nil, src, nil
	}
	format, delim, isFrontMatter := parseOpeningFrontMatterDelimiter(openLine)
	if !isFrontMatter {
		return nil, src, nil
	}
	secondLine, _, ok := nextLine(src, openNext)
	if !ok || !frontMatterMetadataLikely(secondLine) {
		return nil, src, nil
	}
	closeStart, closeNext, found := findClosingFrontMatterDelimiter(src, openNext, delim)
	if !found {
		return nil, src, nil
	}
	body := src[openNext:closeStart]
	fm := &FrontMatter{Format: format, Data: map[string]any{}}
	var err error
	switch format {
	case FrontMatterYAML:
		err = yaml.Unmarshal(body, &fm.Data)
	case FrontMatterTOML:
		err = toml.Unmarshal(body, &fm.Data)
	case FrontMatterJSON:
		err = json.Unmarshal(body, &fm.Data)
	}
	if err != nil {
		return nil, src, fmt.Errorf("decode %s front matter: %w", format, err)
	}
	rest := src[closeNext:]
	return fm, bytes.TrimLeft(rest, "\r\n"), nil
}

func nextLine(src []byte, start int) ([]byte, int, bool) {
	if start >= len(src) {
		return nil, 0, false
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		return trimCR(src[start:]), len(src), true
	}
	lineEnd := start + i
	return trimCR(src[start:lineEnd]), lineEnd + 1, true
}

func parseOpeningFrontMatterDelimiter(line []byte) (FrontMatterFormat, []byte, bool) {
	trimmed := bytes.TrimSpace(trimBOM(line))
	switch {
	case bytes.Equal(trimmed, []byte("---")):
		return FrontMatterYAML, []byte("---"), true
	case bytes.Equal(trimmed, []byte("+++")):
		return FrontMatterTOML, []byte("+++"), true
	case bytes.Equal(trimmed, []byte(";;;")):
		return FrontMatterJSON, []byte(";;;"), true
	default:
		return 0, nil, false
	}
}

func frontMatterMetadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("[")) {
		return true
	}
	return bytes.Contains(trimmed, []byte(":")) || bytes.Contains(trimmed, []byte("="))
}

// findClosingFrontMatterDelimiter returns the offsets of the closing
// delimiter line and of the byte after it.
func findClosingFrontMatterDelimiter(src []byte, start int, delim []byte) (int, int, bool) {
	for idx := start; idx < len(src); {
		line, next, ok := nextLine(src, idx)
		if !ok {
			return 0, 0, false
		}
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return idx, next, true
		}
		idx = next
	}
	return 0, 0, false
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
