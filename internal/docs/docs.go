// Package docs serves the embedded integration guide as rendered HTML.
package docs

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed integration.md
var integrationMarkdown []byte

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>AccessKit Integration Guide</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.6; color: #1a1a2e; }
pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; border-radius: 6px; }
code { font-size: 0.9em; }
h1, h2 { border-bottom: 1px solid #eaecef; padding-bottom: 0.3em; }
</style>
</head>
<body>
{{.Content}}
</body>
</html>`

var (
	renderOnce sync.Once
	rendered   []byte
	renderErr  error
)

// render converts the embedded guide to a full HTML page once.
func render() ([]byte, error) {
	renderOnce.Do(func() {
		md := goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		)

		var body bytes.Buffer
		if renderErr = md.Convert(integrationMarkdown, &body); renderErr != nil {
			return
		}

		tmpl, err := template.New("page").Parse(pageTemplate)
		if err != nil {
			renderErr = err
			return
		}

		var page bytes.Buffer
		renderErr = tmpl.Execute(&page, struct{ Content template.HTML }{
			Content: template.HTML(body.String()),
		})
		rendered = page.Bytes()
	})
	return rendered, renderErr
}

// RegisterRoutes mounts the integration guide at /docs.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		page, err := render()
		if err != nil {
			http.Error(w, "guide unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	})
}
