package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"home.html",
	"directory.html",
	"job.html",
	"category.html",
	"pricing.html",
	"faq.html",
	"alerts.html",
	"notfound.html",
}

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// renderMarkdown converts a job description to HTML. Descriptions come from
// the record store already normalized, so rendering failures fall back to
// the raw text escaped by the template engine.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func loadTemplates() (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"markdown": renderMarkdown,
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = t
	}

	return pages, nil
}

func (s *Server) render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := s.pages[page]
	if !ok {
		logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		logger.Error("template render failed", slog.String("page", page), slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
