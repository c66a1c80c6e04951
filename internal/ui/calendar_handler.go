package ui

import (
	"encoding/json"
	"html/template"
	"net/http"

	"gitea.jw6.us/james/traindesk/internal/derive"
	"gitea.jw6.us/james/traindesk/internal/http/errors"
)

// Calendar displays the training calendar. Events are derived on render from
// the cached trainings; nothing about them is persisted.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title": "Harjoituskalenteri",
	}
	if err := h.store.ReloadTrainings(r.Context()); err != nil {
		data["FlashError"] = errors.FlashMessage(r, "load trainings", err)
	}

	events := derive.CalendarEvents(h.store.Trainings(), h.palette)

	eventsJSON, err := json.Marshal(events)
	if err != nil {
		errors.InternalError(w, r, err, "marshal calendar events")
		return
	}

	data["Events"] = events
	data["EventsJSON"] = template.JS(eventsJSON)
	data["Legend"] = h.legend()
	h.render(w, r, "calendar.html", h.withFlash(r, data))
}

// CalendarEventsJSON feeds the calendar widget.
func (h *Handler) CalendarEventsJSON(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ReloadTrainings(r.Context()); err != nil {
		errors.LogError(r, "calendar feed: reload trainings", err)
	}

	events := derive.CalendarEvents(h.store.Trainings(), h.palette)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(events); err != nil {
		errors.LogError(r, "encode calendar events", err)
	}
}

type legendEntry struct {
	Activity string
	Color    string
}

func (h *Handler) legend() []legendEntry {
	entries := make([]legendEntry, 0, len(h.palette.Activities))
	for _, name := range knownActivities(h.palette) {
		entries = append(entries, legendEntry{Activity: name, Color: h.palette.Activities[name]})
	}
	return entries
}
