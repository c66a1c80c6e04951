// Package ui serves the server-rendered pages: customer and training lists,
// the training calendar, and the per-activity statistics chart. Every page
// reloads its collection from the record store first and falls back to the
// last good cached snapshot (with a visible error flash) when that fails.
package ui

import (
	"html/template"
	"net/http"

	"gitea.jw6.us/james/traindesk/internal/cache"
	"gitea.jw6.us/james/traindesk/internal/config"
	"gitea.jw6.us/james/traindesk/internal/derive"
	"gitea.jw6.us/james/traindesk/internal/http/errors"
)

// Handler serves server-rendered HTML pages.
type Handler struct {
	cfg       *config.Config
	store     *cache.Cache
	palette   derive.Palette
	templates map[string]*template.Template
}

func NewHandler(cfg *config.Config, store *cache.Cache, palette derive.Palette) *Handler {
	return &Handler{cfg: cfg, store: store, palette: palette, templates: templates}
}

// Dashboard shows record counts from the current snapshot.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ReloadCustomers(r.Context()); err != nil {
		errors.LogError(r, "dashboard: reload customers", err)
	}
	if err := h.store.ReloadTrainings(r.Context()); err != nil {
		errors.LogError(r, "dashboard: reload trainings", err)
	}

	customers := h.store.Customers()
	trainings := h.store.Trainings()
	stats := derive.ActivityStats(trainings, h.palette)

	data := h.withFlash(r, map[string]any{
		"Title":         "Dashboard",
		"CustomerCount": len(customers),
		"TrainingCount": len(trainings),
		"ActivityCount": len(stats),
	})
	h.render(w, r, "dashboard.html", data)
}
