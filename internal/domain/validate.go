package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// FieldError names one rejected field and why.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when a record fails validation before any
// remote call is attempted.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Validate checks that all required customer fields are present before the
// record is sent to the store.
func (c Customer) Validate() error {
	var verr ValidationError
	required := []struct {
		field string
		value string
	}{
		{"firstname", c.FirstName},
		{"lastname", c.LastName},
		{"email", c.Email},
		{"phone", c.Phone},
		{"streetaddress", c.StreetAddress},
		{"postcode", c.Postcode},
		{"city", c.City},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			verr.add(f.field, "is required")
		}
	}
	if strings.TrimSpace(c.Email) != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			verr.add("email", "is not a valid address")
		}
	}
	return verr.orNil()
}

// TrainingDraft is the submittable form of a Training: the customer is a
// reference by identifier, resolved by the store on read.
type TrainingDraft struct {
	Date       time.Time
	Duration   int
	Activity   string
	CustomerID string
}

// Validate checks the draft before submission. A customer and an activity
// must be selected and the duration must be a positive number of minutes.
func (d TrainingDraft) Validate() error {
	var verr ValidationError
	if d.CustomerID == "" {
		verr.add("customer", "must be selected")
	}
	if strings.TrimSpace(d.Activity) == "" {
		verr.add("activity", "must be selected")
	}
	if d.Duration <= 0 {
		verr.add("duration", "must be a positive number of minutes")
	}
	if d.Date.IsZero() {
		verr.add("date", "is required")
	}
	return verr.orNil()
}
