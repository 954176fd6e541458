package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/csrf"

	"vendex/i18n"
	"vendex/logger"
)

// Renderer writes a full HTML page.
type Renderer interface {
	Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any)
}

// TemplateRenderer renders pages from <dir>/<name> wrapped in
// <dir>/layout.html. Templates are parsed once at construction.
type TemplateRenderer struct {
	pages map[string]*template.Template
}

var baseFuncs = template.FuncMap{
	"T":  func(key string) string { return key },
	"Tf": func(key string, args ...any) string { return key },
	"price": func(p float64) string {
		return fmt.Sprintf("%.2f", p)
	},
}

func NewTemplateRenderer(dir string) (*TemplateRenderer, error) {
	layout := filepath.Join(dir, "layout.html")
	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(layout); err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, file := range files {
		name := filepath.Base(file)
		if name == "layout.html" {
			continue
		}
		tmpl, err := template.New(name).Funcs(baseFuncs).ParseFiles(layout, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	logger.Log.Infow("templates loaded", "dir", dir, "pages", len(pages))
	return &TemplateRenderer{pages: pages}, nil
}

func (t *TemplateRenderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	page, ok := t.pages[name]
	if !ok {
		logger.Log.Errorw("unknown template", "name", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	lang := i18n.DetectLanguage(r)
	tmpl, err := page.Clone()
	if err != nil {
		logger.Log.Errorw("template clone failed", "name", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	tmpl.Funcs(template.FuncMap{
		"T": func(key string) string {
			return i18n.T(lang, key)
		},
		"Tf": func(key string, args ...any) string {
			return i18n.Tf(lang, key, args...)
		},
	})

	if data == nil {
		data = map[string]any{}
	}
	data["Lang"] = lang
	data["csrfField"] = csrf.TemplateField(r)

	// Render into a buffer so a template error does not leave half a page.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.Log.Errorw("template execution failed", "name", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// page assembles the data every page needs and renders name.
func (s *Server) page(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["AppName"] = s.opts.AppName
	data["Flashes"] = s.sessions.Flashes(w, r)
	if p := principal(r); p != nil {
		data["User"] = p
	}
	data["Path"] = r.URL.Path
	s.renderer.Render(w, r, status, name, data)
}
