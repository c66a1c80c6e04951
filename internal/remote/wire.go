package remote

import (
	"encoding/json"
	"strings"
	"time"

	"gitea.jw6.us/james/traindesk/internal/domain"
)

// The store serves customers HAL-style: no plain id field on the collection
// resource, only a self link whose trailing path segment is the identifier.
// Customers embedded inside trainings carry a plain id instead. Both shapes
// normalize to domain.Customer.
type customerWire struct {
	ID            wireID `json:"id"`
	FirstName     string `json:"firstname"`
	LastName      string `json:"lastname"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	StreetAddress string `json:"streetaddress"`
	Postcode      string `json:"postcode"`
	City          string `json:"city"`
	Links         struct {
		Self struct {
			Href string `json:"href"`
		} `json:"self"`
	} `json:"_links"`
}

func (w customerWire) normalize() domain.Customer {
	id := w.ID.String()
	if id == "" {
		id = idFromSelfLink(w.Links.Self.Href)
	}
	return domain.Customer{
		ID:            id,
		FirstName:     w.FirstName,
		LastName:      w.LastName,
		Email:         w.Email,
		Phone:         w.Phone,
		StreetAddress: w.StreetAddress,
		Postcode:      w.Postcode,
		City:          w.City,
	}
}

type customerCollection struct {
	Embedded *struct {
		Customers []customerWire `json:"customers"`
	} `json:"_embedded"`
}

type trainingWire struct {
	ID       wireID         `json:"id"`
	Date     time.Time      `json:"date"`
	Duration domain.Minutes `json:"duration"`
	Activity string         `json:"activity"`
	Customer *customerWire  `json:"customer"`
}

// wireID tolerates the store serving identifiers either as JSON numbers or
// as strings.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = wireID(n.String())
		return nil
	}
	*id = ""
	return nil
}

func (id wireID) String() string { return string(id) }

func (w trainingWire) normalize() domain.Training {
	t := domain.Training{
		ID:       w.ID.String(),
		Date:     w.Date,
		Duration: w.Duration,
		Activity: w.Activity,
	}
	if w.Customer != nil {
		cust := w.Customer.normalize()
		t.Customer = &cust
	}
	return t
}

// idFromSelfLink extracts the trailing path segment of a self-referential
// link, e.g. "https://host/api/customers/201" -> "201".
func idFromSelfLink(href string) string {
	href = strings.TrimRight(href, "/")
	if i := strings.LastIndex(href, "/"); i >= 0 {
		return href[i+1:]
	}
	return href
}

// customerBody is the flat field set the store accepts on create and update.
func customerBody(c domain.Customer) map[string]string {
	return map[string]string{
		"firstname":     c.FirstName,
		"lastname":      c.LastName,
		"email":         c.Email,
		"phone":         c.Phone,
		"streetaddress": c.StreetAddress,
		"postcode":      c.Postcode,
		"city":          c.City,
	}
}

func decodeCustomer(body []byte) (domain.Customer, error) {
	var w customerWire
	if err := json.Unmarshal(body, &w); err != nil {
		return domain.Customer{}, &MalformedError{Resource: "customer", Err: err}
	}
	return w.normalize(), nil
}
