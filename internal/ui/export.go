package ui

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gitea.jw6.us/james/traindesk/internal/derive"
	"gitea.jw6.us/james/traindesk/internal/http/errors"
)

// csvHeader is the stable export field order. Tooling downstream depends on
// it; change it only deliberately.
var csvHeader = []string{"firstname", "lastname", "email", "phone", "streetaddress", "postcode", "city"}

// ExportCustomersCSV streams the cached customer collection as CSV.
func (h *Handler) ExportCustomersCSV(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ReloadCustomers(r.Context()); err != nil {
		errors.LogError(r, "csv export: reload customers", err)
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="customers.csv"`)

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		errors.LogError(r, "csv export: write header", err)
		return
	}
	for _, c := range h.store.Customers() {
		record := []string{c.FirstName, c.LastName, c.Email, c.Phone, c.StreetAddress, c.Postcode, c.City}
		if err := cw.Write(record); err != nil {
			errors.LogError(r, "csv export: write record", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		errors.LogError(r, "csv export: flush", err)
	}
}

// ExportCalendarICS serves the derived training calendar as an iCalendar
// feed, so sessions can be subscribed to from a regular calendar client.
func (h *Handler) ExportCalendarICS(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ReloadTrainings(r.Context()); err != nil {
		errors.LogError(r, "ics export: reload trainings", err)
	}

	events := derive.CalendarEvents(h.store.Trainings(), h.palette)
	now := time.Now().UTC().Format(icalTimeLayout)

	var b strings.Builder
	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\r\n")
	}

	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:-//traindesk//Training Calendar//EN")
	writeLine("CALSCALE:GREGORIAN")
	for _, ev := range events {
		writeLine("BEGIN:VEVENT")
		writeLine("UID:" + ev.ID + "@traindesk")
		writeLine("DTSTAMP:" + now)
		writeLine("DTSTART:" + ev.Start.UTC().Format(icalTimeLayout))
		writeLine("DTEND:" + ev.End.UTC().Format(icalTimeLayout))
		writeLine("SUMMARY:" + escapeICalText(ev.Title))
		writeLine("END:VEVENT")
	}
	writeLine("END:VCALENDAR")

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trainings.ics"`)
	if _, err := fmt.Fprint(w, b.String()); err != nil {
		errors.LogError(r, "ics export: write response", err)
	}
}

const icalTimeLayout = "20060102T150405Z"

func escapeICalText(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return replacer.Replace(s)
}
