package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"percent": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v)
	},
	"join": strings.Join,
}

// Templates holds the parsed dashboard templates
type Templates struct {
	t *template.Template
}

// ParseTemplates parses the embedded templates
func ParseTemplates() (*Templates, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{t: t}, nil
}

// Render executes the named template into w
func (t *Templates) Render(w io.Writer, name string, data interface{}) error {
	return t.t.ExecuteTemplate(w, name, data)
}

// StaticHandler serves the embedded stylesheet and script
func StaticHandler() http.Handler {
	sub, _ := fs.Sub(staticFS, "static")
	return http.FileServerFS(sub)
}
