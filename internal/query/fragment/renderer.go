// Package fragment renders the named query fragment templates shipped with
// this module. Fragments are authored as JSON-shaped text templates and
// embedded at build time; the assembler decodes whatever they produce.
package fragment

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates
var templateFS embed.FS

// Renderer renders embedded fragment templates by their path-like name,
// e.g. "search/query" or "taxon/sort/position".
type Renderer struct {
	root *template.Template
}

// NewRenderer parses all embedded fragment templates.
func NewRenderer() (*Renderer, error) {
	root := template.New("fragments").Funcs(template.FuncMap{
		"json": func(v any) (string, error) {
			data, err := json.Marshal(v)
			return string(data), err
		},
	})

	err := fs.WalkDir(templateFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".json.tmpl")
		content, err := templateFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read fragment %q: %w", name, err)
		}
		if _, err := root.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("parse fragment %q: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Renderer{root: root}, nil
}

// Render implements query.Renderer.
func (r *Renderer) Render(name string, params map[string]any) (string, error) {
	t := r.root.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("unknown query fragment %q", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("render fragment %q: %w", name, err)
	}
	return buf.String(), nil
}
