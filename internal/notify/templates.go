package notify

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed templates/*.html
var templatesFS embed.FS

var ErrUnknownTemplate = errors.New("unknown notification template")

// Renderer хранит шаблоны писем, каждый собран вместе с layout
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	layout, err := template.ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	entries, err := fs.ReadDir(templatesFS, "templates")
	if err != nil {
		return nil, err
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), ".html")
		if name == "layout" {
			continue
		}

		tmpl, err := template.Must(layout.Clone()).ParseFS(templatesFS, "templates/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return r, nil
}

func (r *Renderer) Render(name string, data map[string]any) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
