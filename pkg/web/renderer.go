package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sync"
)

// IndexTemplate is the name of the document served at "/".
const IndexTemplate = "index.html"

// PageData is passed to the index template.
type PageData struct {
	Title string
	Debug bool
}

// Renderer renders the index document. Reload re-parses the templates so a
// Watcher can swap them while requests are being served.
type Renderer struct {
	fsys fs.FS
	data PageData

	mu   sync.RWMutex
	tmpl *template.Template
}

// NewRenderer parses templates/*.html from fsys.
func NewRenderer(fsys fs.FS, data PageData) (*Renderer, error) {
	r := &Renderer{fsys: fsys, data: data}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-parses the templates. On failure the previous set stays active.
func (r *Renderer) Reload() error {
	tmpl, err := template.ParseFS(r.fsys, "templates/*.html")
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	if tmpl.Lookup(IndexTemplate) == nil {
		return fmt.Errorf("parse templates: %s not found", IndexTemplate)
	}

	r.mu.Lock()
	r.tmpl = tmpl
	r.mu.Unlock()
	return nil
}

// Render writes the index document to w. Nothing is written if execution
// fails.
func (r *Renderer) Render(w io.Writer) error {
	r.mu.RLock()
	tmpl := r.tmpl
	r.mu.RUnlock()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, IndexTemplate, r.data); err != nil {
		return fmt.Errorf("render %s: %w", IndexTemplate, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
