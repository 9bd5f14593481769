// Package view renders the HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/aanand-mishra/contacts/internal/logger"
	"github.com/aanand-mishra/contacts/internal/types"
	"github.com/aanand-mishra/contacts/internal/validation"
)

// Page template names.
const (
	Index     = "index.html"
	Update    = "update.html"
	Forbidden = "403.html"
	NotFound  = "404.html"
	Internal  = "500.html"
)

//go:embed templates/*.html
var templateFS embed.FS

// ListData feeds the list/create page.
type ListData struct {
	People    []types.Person
	Form      types.PersonForm
	Errors    validation.FieldErrors
	FormError string
}

// EditData feeds the update page.
type EditData struct {
	ID        int64
	Form      types.PersonForm
	Errors    validation.FieldErrors
	FormError string
}

// Page is the value every template executes against.
type Page struct {
	Flashes   []string
	CSRFField template.HTML
	Data      any
}

// Renderer holds the parsed templates and nothing else.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page together with the shared layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{Index, Update, Forbidden, NotFound, Internal} {
		t, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the named page into a buffer and writes it with status.
// A template failure is logged and answered with a plain 500.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data any, flashes ...string) {
	if err := v.render(w, r, status, name, data, flashes); err != nil {
		logger.FromContext(r.Context()).Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (v *Renderer) render(w http.ResponseWriter, r *http.Request, status int, name string, data any, flashes []string) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	page := Page{
		Flashes:   flashes,
		CSRFField: csrf.TemplateField(r),
		Data:      data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("execute: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// NotFound renders the 404 page.
func (v *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, http.StatusNotFound, NotFound, nil)
}

// Forbidden renders the 403 page and logs why the request was refused.
func (v *Renderer) Forbidden(w http.ResponseWriter, r *http.Request, reason error) {
	logger.FromContext(r.Context()).Warn("request forbidden",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(reason))
	v.Render(w, r, http.StatusForbidden, Forbidden, nil)
}

// InternalError logs err at ERROR, which also lands in the error log
// file, and renders the 500 page.
func (v *Renderer) InternalError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Error("internal server error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	v.Render(w, r, http.StatusInternalServerError, Internal, nil)
}
