// Package webui serves the dashboard page, its script and the admin debug page.
package webui

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"salesdash.senseiquotes.org/internal/app"
)

const (
	PlotlyURL    = "https://cdn.plot.ly/plotly-2.35.2.min.js"
	BootstrapURL = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"

	// PageContentSecurityPolicy lets the page load Plotly and Bootstrap from their CDNs.
	// Plotly injects its own style elements.
	PageContentSecurityPolicy = "default-src 'self'; " +
		"script-src 'self' https://cdn.plot.ly; " +
		"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net; " +
		"img-src 'self' data: blob:; " +
		"connect-src 'self'; frame-ancestors 'none';"
)

//go:embed index.html debug_index.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var (
	indexTemplate = template.Must(template.ParseFS(templateFS, "index.html"))
	debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))
)

type WebUI struct {
	*app.Application
}

func New(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

type indexData struct {
	Title        string
	PlotlyURL    string
	BootstrapURL string
}

func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	router.HandlerFunc(http.MethodGet, "/", webUI.indexHandler)
	router.ServeFiles("/static/*filepath", http.FS(static))
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}

func (webUI *WebUI) indexHandler(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, indexData{
		Title:        "Sensei Quotes Dashboard",
		PlotlyURL:    PlotlyURL,
		BootstrapURL: BootstrapURL,
	})
	if err != nil {
		webUI.Logger.Error("failed to render index", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", PageContentSecurityPolicy)
	_, _ = w.Write(buf.Bytes())
}
