package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// rawSource is an undecoded source: an object or a string reference.
type rawSource = json.RawMessage

type document struct {
	Sources map[string]rawSource `json:"sources"`
	Outputs map[string]rawSource `json:"outputs"`
}

// ParseFile reads and parses a document. Relative texture paths are
// resolved against the document's directory.
func ParseFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse parses a document. Relative texture paths are resolved against
// baseDir.
//
// Named sources are resolved on first reference, so declaration order does
// not matter. Outputs are returned sorted by name.
func Parse(data []byte, baseDir string) (*Graph, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	if len(doc.Outputs) == 0 {
		return nil, fmt.Errorf("%w: document has no outputs", ErrInvalidSource)
	}

	b := &builder{
		baseDir: baseDir,
		named:   doc.Sources,
		index:   make(map[string]int),
		active:  make(map[string]bool),
		g:       &Graph{},
	}

	names := make([]string, 0, len(doc.Sources))
	for name := range doc.Sources {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if _, err := b.resolveName(name, "sources"); err != nil {
			return nil, err
		}
	}

	outputs := make([]string, 0, len(doc.Outputs))
	for name := range doc.Outputs {
		outputs = append(outputs, name)
	}
	slices.Sort(outputs)
	for _, name := range outputs {
		if !filepath.IsLocal(name) {
			return nil, fmt.Errorf("%w: output name %q must be a relative path inside the output directory", ErrInvalidSource, name)
		}
		i, err := b.resolve(doc.Outputs[name], "outputs."+name)
		if err != nil {
			return nil, err
		}
		b.g.Outputs = append(b.g.Outputs, Output{Name: name, Node: i})
	}
	return b.g, nil
}

type builder struct {
	baseDir string
	named   map[string]rawSource
	index   map[string]int
	active  map[string]bool
	g       *Graph
}

// resolve returns the node index of raw, adding nodes as needed. at names
// the position in the document for error messages.
func (b *builder) resolve(raw rawSource, at string) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: %s: missing source", ErrInvalidSource, at)
	}
	if raw[0] == '"' {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidSource, at, err)
		}
		return b.resolveName(name, at)
	}
	return b.decode(raw, at, "")
}

// resolveName returns the node index of the named source.
func (b *builder) resolveName(name, at string) (int, error) {
	if i, ok := b.index[name]; ok {
		return i, nil
	}
	raw, ok := b.named[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s: unknown source %q", ErrInvalidSource, at, name)
	}
	if b.active[name] {
		return 0, fmt.Errorf("%w: %s: %q refers back to itself", ErrCycle, at, name)
	}
	b.active[name] = true
	defer delete(b.active, name)

	raw = bytes.TrimSpace(raw)
	var i int
	var err error
	if len(raw) > 0 && raw[0] == '"' {
		i, err = b.resolve(raw, "sources."+name)
	} else {
		i, err = b.decode(raw, "sources."+name, name)
	}
	if err != nil {
		return 0, err
	}
	b.index[name] = i
	return i, nil
}

// decode adds the node described by the source object raw and returns its
// index. Inputs are resolved first, so they always precede the node.
func (b *builder) decode(raw rawSource, at, name string) (int, error) {
	var header struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidSource, at, err)
	}
	typ := header.Type
	if i := strings.LastIndexByte(typ, ':'); i >= 0 {
		typ = typ[i+1:]
	}
	kind, ok := kinds[typ]
	if !ok {
		return 0, fmt.Errorf("%w: %s: unknown type %q", ErrInvalidSource, at, header.Type)
	}

	node := Node{Kind: kind, Name: name}
	var err error
	switch kind {
	case KindTexture:
		err = b.decodeTexture(raw, at, &node)
	case KindForegroundTransfer:
		err = b.decodeTransfer(raw, at, &node)
	case KindMask:
		err = b.decodeMask(raw, at, &node)
	case KindPaletteSpread:
		err = b.decodeSpread(raw, at, &node)
	case KindOverlay, KindAdd:
		err = b.decodeList(raw, at, &node)
	case KindInvert:
		err = b.decodeInvert(raw, at, &node)
	case KindCutoff:
		err = b.decodeCutoff(raw, at, &node)
	}
	if err != nil {
		return 0, err
	}

	b.g.Nodes = append(b.g.Nodes, node)
	return len(b.g.Nodes) - 1, nil
}

func (b *builder) inputs(at string, fields ...namedRaw) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		idx, err := b.resolve(f.raw, at+"."+f.name)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}

type namedRaw struct {
	name string
	raw  rawSource
}

func (b *builder) decodeTexture(raw rawSource, at string, node *Node) error {
	var s textureSource
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSource, at, err)
	}
	if s.Path == "" {
		return fmt.Errorf("%w: %s: missing path", ErrInvalidSource, at)
	}
	node.Path = s.Path
	if !filepath.IsAbs(s.Path) && b.baseDir != "" {
		node.Path = filepath.Join(b.baseDir, s.Path)
	}
	return nil
}

func (b *builder) decodeTransfer(raw rawSource, at string, node *Node) error {
	var s transferSource
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSource, at, err)
	}
	node.Transfer = s.options()
	if err := node.Transfer.DiffOptions.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSource, at, err)
	}
	var err error
	node.Inputs, err = b.inputs(at,
		namedRaw{"background", s.Background},
		namedRaw{"full", s.Full},
		namedRaw{"new_background", s.NewBackground},
	)
	return err
}

func (b *builder) decodeMask(raw rawSource, at string, node *Node) error {
	var s maskSource
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSource, at, err)
	}
	var err error
	node.Inputs, err = b.inputs(at,
		namedRaw{"mask", s.Mask},
		namedRaw{"input", s.Input},
	)
	return err
}

func (b *builder) decodeSpread(raw rawSource, at string, node *Node) error {
	var s spreadSource
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSource, at, err)
	}
	node.Spread = s.options()
	if err := node.Spread.Validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSource, at, err)
	}
	var err error
	node.Inputs, err = b.inputs(at,
		namedRaw{"background", s.Background},
		namedRaw{"foreground", s.Foreground},
	)
	return err
}

func (b *builder) decodeList(raw rawSource, at string, node *Node) error {
	var s listSource
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSource, at, err)
	}
	if len(s.Sources) == 0 {
		return fmt.Errorf("%w: %s: needs at least one source", ErrInvalidSource, at)
	}
	fields := make([]namedRaw, len(s.Sources))
	for i, src := range s.Sources {
		fields[i] = namedRaw{fmt.Sprintf("sources[%d]", i), src}
	}
	var err error
	node.Inputs, err = b.inputs(at, fields...)
	return err
}

func (b *builder) decodeInvert(raw rawSource, at string, node *Node) error {
	var s invertSource
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSource, at, err)
	}
	var err error
	node.Inputs, err = b.inputs(at, namedRaw{"source", s.Source})
	return err
}

func (b *builder) decodeCutoff(raw rawSource, at string, node *Node) error {
	var s cutoffSource
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSource, at, err)
	}
	var err error
	if node.Cutoff, err = s.options(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSource, at, err)
	}
	node.Inputs, err = b.inputs(at, namedRaw{"source", s.Source})
	return err
}
