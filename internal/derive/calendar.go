package derive

import (
	"time"

	"gitea.jw6.us/james/traindesk/internal/domain"
)

// MissingCustomer is the title fallback when a training's customer reference
// cannot be resolved ("customer not specified").
const MissingCustomer = "Asiakas ei määritelty"

// CalendarEvents joins each training with its embedded customer and computes
// the event interval. Pure; never fails. A training whose customer is absent
// or structurally incomplete gets the fallback name, an unknown activity gets
// the palette default color, and an unknown duration renders as a zero-length
// event rather than dropping the training.
func CalendarEvents(trainings []domain.Training, palette Palette) []domain.CalendarEvent {
	events := make([]domain.CalendarEvent, 0, len(trainings))
	for _, t := range trainings {
		name := MissingCustomer
		if t.Customer != nil && t.Customer.Resolvable() {
			name = t.Customer.DisplayName()
		}

		minutes := 0
		if t.Duration.Valid {
			minutes = t.Duration.Value
		}

		events = append(events, domain.CalendarEvent{
			ID:    t.ID,
			Title: t.Activity + " - " + name,
			Start: t.Date,
			// Instant arithmetic, so the length is exact across DST and
			// month/year boundaries.
			End:   t.Date.Add(time.Duration(minutes) * time.Minute),
			Color: palette.EventColor(t.Activity),
		})
	}
	return events
}
