package ui

import (
	"encoding/json"
	"net/http"

	"gitea.jw6.us/james/traindesk/internal/derive"
	"gitea.jw6.us/james/traindesk/internal/domain"
	"gitea.jw6.us/james/traindesk/internal/http/errors"
)

// Statistics displays total training minutes per activity as a bar chart.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title": "Harjoitusten Kokonaiskesto Aktiviteeteittain",
	}
	if err := h.store.ReloadTrainings(r.Context()); err != nil {
		data["FlashError"] = errors.FlashMessage(r, "load trainings", err)
	}

	stats := derive.ActivityStats(h.store.Trainings(), h.palette)

	type bar struct {
		domain.ActivityStat
		Percent int
	}
	max := 0
	for _, s := range stats {
		if s.TotalMinutes > max {
			max = s.TotalMinutes
		}
	}
	bars := make([]bar, 0, len(stats))
	for _, s := range stats {
		b := bar{ActivityStat: s}
		if max > 0 {
			b.Percent = s.TotalMinutes * 100 / max
		}
		bars = append(bars, b)
	}

	data["Stats"] = bars
	h.render(w, r, "statistics.html", h.withFlash(r, data))
}

// StatisticsJSON feeds the chart as ordered activity totals.
func (h *Handler) StatisticsJSON(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ReloadTrainings(r.Context()); err != nil {
		errors.LogError(r, "statistics feed: reload trainings", err)
	}

	stats := derive.ActivityStats(h.store.Trainings(), h.palette)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		errors.LogError(r, "encode statistics", err)
	}
}
