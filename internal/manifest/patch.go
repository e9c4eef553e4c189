package manifest

import (
	"fmt"
	"os"
)

// Field is one key/value pair of a patch. Fields are applied in slice order,
// which is also the order new keys appear in the output.
type Field struct {
	Key   string
	Value any
}

// Nested groups the fields merged into one nested object.
type Nested struct {
	Key    string
	Fields []Field
}

// Patch describes the changes applied to a manifest: Set replaces top-level
// fields, Merge shallow-merges into nested objects. Set is applied first.
type Patch struct {
	Set   []Field
	Merge []Nested
}

// Apply applies p to d.
func (p Patch) Apply(d *Document) error {
	for _, f := range p.Set {
		if err := d.Set(f.Key, f.Value); err != nil {
			return err
		}
	}
	for _, n := range p.Merge {
		if err := d.Merge(n.Key, n.Fields); err != nil {
			return err
		}
	}
	return nil
}

// PatchFile loads the manifest at path, applies p, and writes it back with
// stable formatting.
func PatchFile(path string, p Patch) error {
	doc, err := Load(path)
	if err != nil {
		return err
	}
	if err := p.Apply(doc); err != nil {
		return fmt.Errorf("patching %s: %w", path, err)
	}

	out, err := doc.Bytes()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(path, out, perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
