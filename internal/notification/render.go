package notification

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

// Template identifiers shipped with the service.
const (
	TemplateImportCompleted = "import_completed"
	TemplateImportFailed    = "import_failed"
)

var ErrUnknownTemplate = errors.New("unknown notification template")

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns a Content into an HTML body.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	return NewRendererFS(templateFS, "templates/*.html")
}

// NewRendererFS parses templates matching pattern in fsys. A template is addressed
// by its file name without extension.
func NewRendererFS(fsys fs.FS, pattern string) (*Renderer, error) {
	t, err := template.New("").ParseFS(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("parse notification templates: %w", err)
	}
	return &Renderer{tmpl: t}, nil
}

// Render executes the named view with its data.
func (r *Renderer) Render(c Content) (string, error) {
	name := strings.TrimSuffix(c.View, ".html") + ".html"
	t := r.tmpl.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, c.View)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, c.With); err != nil {
		return "", fmt.Errorf("render %s: %w", c.View, err)
	}
	return buf.String(), nil
}
