package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"text/template"
)

//go:embed scaffolds
var scaffoldFS embed.FS

// Data holds all template variables available to scaffold templates.
type Data struct {
	Name        string // project name, e.g. "demo"
	BackendPort int    // fallback port when PORT is unset
}

// NewData creates template data for a project.
func NewData(name string, backendPort int) *Data {
	return &Data{
		Name:        name,
		BackendPort: backendPort,
	}
}

// FileTemplate describes one file to materialize. Exactly one of Content and
// Source is set: Content is written verbatim, Source names an embedded
// template (relative to scaffolds/) that is rendered against Data.
type FileTemplate struct {
	Path      string // relative to the pipeline's base directory
	Content   string
	Source    string
	Overwrite bool
}

// Render produces the file's bytes. It has no side effects.
func (t FileTemplate) Render(data *Data) ([]byte, error) {
	if t.Source == "" {
		return []byte(t.Content), nil
	}

	tmplPath := path.Join("scaffolds", t.Source)
	raw, err := fs.ReadFile(scaffoldFS, tmplPath)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
	}

	tmpl, err := template.New(t.Source).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", t.Source, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", t.Source, err)
	}
	return buf.Bytes(), nil
}
