// internal/api/handler/web/handler.go
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/quantlens/quantlens/internal/view"
	"go.uber.org/zap"
)

//go:embed templates/*
var templateFS embed.FS

// Handler provides the web UI with template rendering.
type Handler struct {
	// pageTemplates holds a separate template instance per page, each
	// containing layout.html plus the page itself.
	pageTemplates map[string]*template.Template
	engine        Engine
	viewer        *view.Viewer
	logger        *zap.Logger
}

// NewHandler creates a web handler from the embedded templates.
func NewHandler(eng Engine, viewer *view.Viewer, logger *zap.Logger) (*Handler, error) {
	subFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("accessing embedded templates: %w", err)
	}
	return NewHandlerWithFS(subFS, eng, viewer, logger)
}

// NewHandlerWithFS creates a web handler from a custom filesystem, which
// tests use to substitute templates.
func NewHandlerWithFS(fsys fs.FS, eng Engine, viewer *view.Viewer, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pages := []string{"dashboard.html", "results.html"}
	pageTemplates := make(map[string]*template.Template)
	for _, page := range pages {
		tmpl, err := template.ParseFS(fsys, "layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		pageTemplates[page] = tmpl
	}

	return &Handler{
		pageTemplates: pageTemplates,
		engine:        eng,
		viewer:        viewer,
		logger:        logger,
	}, nil
}

// render executes the specified page template with the given data.
func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := h.pageTemplates[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		h.logger.Error("rendering template", zap.String("page", page), zap.Error(err))
	}
}
