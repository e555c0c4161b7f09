// Package render draws HTML pages from the embedded template set.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"

	"go.uber.org/zap"

	"github.com/openshelf/elibrary/internal/session"
)

//go:embed templates
var files embed.FS

// Data is the envelope every page receives. Session and Flash feed the shared
// layout; Errors and Values re-fill a form after failed validation; CSRFToken
// goes into each form's hidden field; Payload is whatever the page itself
// needs.
type Data struct {
	Session   *session.Session
	Flash     string
	Errors    map[string]string
	Values    url.Values
	CSRFToken string
	Payload   any
}

// Value returns the submitted value for a form field, or "" when the page is
// rendered fresh.
func (d Data) Value(field string) string {
	if d.Values == nil {
		return ""
	}
	return d.Values.Get(field)
}

// Error returns the validation message for a form field, if any.
func (d Data) Error(field string) string {
	if d.Errors == nil {
		return ""
	}
	return d.Errors[field]
}

type Renderer struct {
	pages map[string]*template.Template
	log   *zap.Logger
}

// New parses every page template against the shared base layout.
func New(log *zap.Logger) (*Renderer, error) {
	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template)
	for _, name := range names {
		base := path.Base(name)
		if base == "base.html" {
			continue
		}
		t, err := template.New(base).ParseFS(files, "templates/base.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", base, err)
		}
		pages[base] = t
	}
	return &Renderer{pages: pages, log: log}, nil
}

// Page renders the named page to a buffer first so a template fault never
// leaks a half-written response.
func (rn *Renderer) Page(w http.ResponseWriter, status int, page string, data Data) {
	t, ok := rn.pages[page]
	if !ok {
		rn.log.Error("unknown template", zap.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		rn.log.Error("render failed", zap.String("page", page), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// NotFound renders the generic 404 page.
func (rn *Renderer) NotFound(w http.ResponseWriter, data Data) {
	rn.Page(w, http.StatusNotFound, "not_found.html", data)
}
