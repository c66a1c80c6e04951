package ui

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"gitea.jw6.us/james/traindesk/internal/derive"
	"gitea.jw6.us/james/traindesk/internal/domain"
	"gitea.jw6.us/james/traindesk/internal/http/errors"
)

// Trainings displays the training list with the add form. The customer
// collection is loaded too so the form can offer a customer dropdown.
func (h *Handler) Trainings(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title": "Harjoitukset",
	}
	if err := h.store.ReloadTrainings(r.Context()); err != nil {
		data["FlashError"] = errors.FlashMessage(r, "load trainings", err)
	}
	if err := h.store.ReloadCustomers(r.Context()); err != nil {
		errors.LogError(r, "trainings: reload customers", err)
	}

	trainings := h.store.Trainings()
	type trainingRow struct {
		ID           string
		Date         time.Time
		Activity     string
		Duration     string
		CustomerName string
	}
	rows := make([]trainingRow, 0, len(trainings))
	for _, t := range trainings {
		row := trainingRow{
			ID:           t.ID,
			Date:         t.Date,
			Activity:     t.Activity,
			CustomerName: derive.MissingCustomer,
		}
		if t.Duration.Valid {
			row.Duration = strconv.Itoa(t.Duration.Value)
		}
		if t.Customer != nil && t.Customer.Resolvable() {
			row.CustomerName = t.Customer.DisplayName()
		}
		rows = append(rows, row)
	}

	data["Trainings"] = rows
	data["Customers"] = h.store.Customers()
	data["Activities"] = knownActivities(h.palette)
	h.render(w, r, "trainings.html", h.withFlash(r, data))
}

// CreateTraining handles the add-training form. A customer and an activity
// must be selected; validation happens in the cache layer before any remote
// call.
func (h *Handler) CreateTraining(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/trainings", map[string]string{"error": "invalid form"})
		return
	}

	draft := domain.TrainingDraft{
		Activity:   strings.TrimSpace(r.FormValue("activity")),
		CustomerID: strings.TrimSpace(r.FormValue("customer")),
	}
	if v := strings.TrimSpace(r.FormValue("duration")); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil {
			draft.Duration = minutes
		}
	}
	if v := strings.TrimSpace(r.FormValue("date")); v != "" {
		// datetime-local inputs carry no zone; interpret in server time.
		if t, err := time.ParseInLocation("2006-01-02T15:04", v, time.Local); err == nil {
			draft.Date = t
		}
	}

	if err := h.store.AddTraining(r.Context(), draft); err != nil {
		h.redirect(w, r, "/trainings", map[string]string{"error": errors.FlashMessage(r, "create training", err)})
		return
	}
	h.redirect(w, r, "/trainings", map[string]string{"status": "created"})
}

// DeleteTraining removes a training.
func (h *Handler) DeleteTraining(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.redirect(w, r, "/trainings", map[string]string{"error": "invalid id"})
		return
	}

	if err := h.store.RemoveTraining(r.Context(), id); err != nil {
		h.redirect(w, r, "/trainings", map[string]string{"error": errors.FlashMessage(r, "delete training", err)})
		return
	}
	h.redirect(w, r, "/trainings", map[string]string{"status": "deleted"})
}

// knownActivities lists the palette's activity names for the add form and
// the calendar legend, in stable order. The table carries both historical
// spellings of some activities; each name is shown once.
func knownActivities(p derive.Palette) []string {
	names := make([]string, 0, len(p.Activities))
	for name := range p.Activities {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, name := range names {
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}
