package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Customer is a client of the training business. The identifier is assigned
// by the remote record store; every other field is mutable.
type Customer struct {
	ID            string `json:"id"`
	FirstName     string `json:"firstname"`
	LastName      string `json:"lastname"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	StreetAddress string `json:"streetaddress"`
	Postcode      string `json:"postcode"`
	City          string `json:"city"`
}

// DisplayName is the name shown on calendar events and training rows.
func (c Customer) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Resolvable reports whether the record is structurally complete enough to
// display: identifier and both name fields present.
func (c Customer) Resolvable() bool {
	return c.ID != "" && c.FirstName != "" && c.LastName != ""
}

// Training is one logged session. Trainings are created and deleted but never
// edited in place; the record store exposes no update for them.
type Training struct {
	ID       string
	Date     time.Time
	Duration Minutes
	Activity string
	Customer *Customer
}

// CalendarEvent is derived from a Training joined with its Customer. It is
// never persisted.
type CalendarEvent struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Color string    `json:"color"`
}

// ActivityStat is the total logged time for one activity. It is never
// persisted.
type ActivityStat struct {
	Activity     string `json:"activity"`
	TotalMinutes int    `json:"totalDuration"`
	Fill         string `json:"fill"`
}

// Minutes is a duration-in-minutes field tolerant of the record store's
// historical encodings: a JSON number, a numeric string, null, or absent.
// Anything else decodes as unknown rather than failing the whole collection.
type Minutes struct {
	Value int
	Valid bool
}

func (m *Minutes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = Minutes{}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if v, err := n.Int64(); err == nil {
			*m = Minutes{Value: int(v), Valid: true}
			return nil
		}
		*m = Minutes{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*m = Minutes{Value: v, Valid: true}
			return nil
		}
	}

	*m = Minutes{}
	return nil
}

func (m Minutes) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(m.Value)), nil
}
