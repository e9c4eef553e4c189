package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

var (
	ErrManifestNotFound = errors.New("manifest not found")
	ErrManifestParse    = errors.New("manifest is not valid JSON")
)

// Document is a JSON object held as a YAML node tree, which keeps object keys
// in the order they appear in the source. Each key appears at most once.
type Document struct {
	root *yaml.Node // MappingNode
}

// Load reads and parses the manifest at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse parses a JSON object. The token stream of encoding/json builds the
// ordered node tree, so JSON escapes and number literals keep their JSON
// meaning. A key repeated in one object keeps its first position and its
// last value.
func Parse(data []byte) (*Document, error) {
	if !json.Valid(data) {
		return nil, ErrManifestParse
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestParse, err)
	}
	if tok != json.Delim('{') {
		return nil, fmt.Errorf("%w: top-level value must be an object", ErrManifestParse)
	}
	root, err := decodeObject(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifestParse, err)
	}
	return &Document{root: root}, nil
}

// decodeObject reads members up to and including the closing brace.
func decodeObject(dec *json.Decoder) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key %v is not a string", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		put(m, key, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeArray(dec *json.Decoder) (*yaml.Node, error) {
	s := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		s.Content = append(s.Content, value)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeValue(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected %v", v)
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}, nil
	case json.Number:
		// The literal is written back verbatim, whatever its magnitude.
		tag := "!!int"
		if strings.ContainsAny(string(v), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(v)}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// Get returns the value node stored under key, or nil.
func (d *Document) Get(key string) *yaml.Node {
	return lookup(d.root, key)
}

// Set replaces key's value in place, or appends key when absent.
func (d *Document) Set(key string, value any) error {
	n, err := valueNode(value)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	put(d.root, key, n)
	return nil
}

// Merge sets fields inside the object stored under key. A missing or
// non-object value is replaced by a fresh object first. Nested values are
// overwritten, not merged.
func (d *Document) Merge(key string, fields []Field) error {
	target := lookup(d.root, key)
	if target == nil || target.Kind != yaml.MappingNode {
		target = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		put(d.root, key, target)
	}
	for _, f := range fields {
		n, err := valueNode(f.Value)
		if err != nil {
			return fmt.Errorf("encoding %s.%s: %w", key, f.Key, err)
		}
		put(target, f.Key, n)
	}
	return nil
}

// Bytes encodes the document as 2-space indented JSON with a trailing newline.
func (d *Document) Bytes() ([]byte, error) {
	var compact bytes.Buffer
	if err := encodeNode(&compact, d.root); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("formatting manifest: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// put stores value under key at the key's first position and drops any
// later occurrences of key.
func put(m *yaml.Node, key string, value *yaml.Node) {
	found := false
	kept := m.Content[:0]
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if k.Value == key {
			if found {
				continue
			}
			found = true
			v = value
		}
		kept = append(kept, k, v)
	}
	m.Content = kept
	if found {
		return
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

func valueNode(v any) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return &n, nil
}

// encodeNode writes n as compact JSON.
func encodeNode(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, n.Content[i].Value); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeNode(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeNode(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str":
			return writeString(buf, n.Value)
		case "!!int", "!!float", "!!bool":
			buf.WriteString(n.Value)
		case "!!null":
			buf.WriteString("null")
		default:
			return fmt.Errorf("unsupported scalar tag %s", n.ShortTag())
		}
	case yaml.AliasNode:
		return encodeNode(buf, n.Alias)
	default:
		return fmt.Errorf("unsupported node kind %v", n.Kind)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encoder terminates each value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
